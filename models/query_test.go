package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 25)
	if assert.NotNil(t, p.Next) && assert.NotNil(t, p.Prev) {
		assert.Equal(t, PageRef{Page: 3, Limit: 10}, *p.Next)
		assert.Equal(t, PageRef{Page: 1, Limit: 10}, *p.Prev)
	}

	p = NewPagination(3, 10, 25)
	assert.Nil(t, p.Next)
	assert.NotNil(t, p.Prev)

	p = NewPagination(1, 25, 25)
	assert.Nil(t, p.Next)
	assert.Nil(t, p.Prev)
}

func TestListQueryOffset(t *testing.T) {
	assert.Equal(t, 10, ListQuery{Page: 2, Limit: 10}.Offset())
	assert.Equal(t, 0, ListQuery{Page: 1, Limit: 25}.Offset())
}
