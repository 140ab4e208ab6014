package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageRequest_Limit(t *testing.T) {
	assert.Equal(t, DefaultPerPage, PageRequest{}.Limit())
	assert.Equal(t, 10, PageRequest{PerPage: 10}.Limit())
	assert.Equal(t, MaxPerPage, PageRequest{PerPage: 5000}.Limit())
	assert.Equal(t, DefaultPerPage, PageRequest{PerPage: -1}.Limit())
}

func TestPageRequest_Offset(t *testing.T) {
	assert.Equal(t, 0, PageRequest{}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 1, PerPage: 25}.Offset())
	assert.Equal(t, 50, PageRequest{Page: 3, PerPage: 25}.Offset())
	assert.Equal(t, 0, PageRequest{Page: -5}.Offset())
}

func TestNewPageMeta(t *testing.T) {
	meta := NewPageMeta(PageRequest{Page: 2, PerPage: 10}, 35)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, 10, meta.PerPage)
	assert.Equal(t, int64(35), meta.Total)
	assert.Equal(t, int64(4), meta.TotalPages)

	meta = NewPageMeta(PageRequest{}, 0)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, int64(0), meta.TotalPages)
}
