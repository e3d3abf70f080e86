package util

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ariebrainware/clinic-records/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFinder struct {
	calls   int
	doctors map[model.DoctorID]model.Doctor
}

var errNoDoctor = errors.New("no doctor")

func (f *countingFinder) FindDoctorByID(_ context.Context, id model.DoctorID) (*model.Doctor, error) {
	f.calls++
	d, ok := f.doctors[id]
	if !ok {
		return nil, errNoDoctor
	}
	return &d, nil
}

func TestDoctorNameCache_HitsAfterFirstLookup(t *testing.T) {
	finder := &countingFinder{doctors: map[model.DoctorID]model.Doctor{"d-1": {Name: "Jane"}}}
	c := NewDoctorNameCache(time.Minute)

	for i := 0; i < 3; i++ {
		name, err := c.Name(context.Background(), finder, "d-1")
		require.NoError(t, err)
		assert.Equal(t, "Jane", name)
	}
	assert.Equal(t, 1, finder.calls)
	assert.Equal(t, 1, c.Len())
}

func TestDoctorNameCache_ErrorsAreNotCached(t *testing.T) {
	finder := &countingFinder{doctors: map[model.DoctorID]model.Doctor{}}
	c := NewDoctorNameCache(0)

	_, err := c.Name(context.Background(), finder, "missing")
	assert.ErrorIs(t, err, errNoDoctor)
	_, err = c.Name(context.Background(), finder, "missing")
	assert.ErrorIs(t, err, errNoDoctor)
	assert.Equal(t, 2, finder.calls)
	assert.Equal(t, 0, c.Len())
}
