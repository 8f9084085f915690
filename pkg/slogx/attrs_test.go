package slogx

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Equal(t, "", Error(nil).Value.String())

	id := uuid.New()
	attr := RunID(id)
	assert.Equal(t, KeyRunID, attr.Key)
	assert.Equal(t, id.String(), attr.Value.String())

	attr = Stringer("id", id)
	assert.Equal(t, id.String(), attr.Value.String())

	assert.Equal(t, KeyModel, Model("@cf/meta/llama-3.1-8b-instruct").Key)
	assert.Equal(t, "sequencer", LoggerName("sequencer").Value.String())
}
