package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"campus-volunteer/internal/domain"
)

func TestHasRole(t *testing.T) {
	tests := []struct {
		role     string
		required domain.UserRole
		want     bool
	}{
		{"admin", domain.RoleOrganizer, true},
		{"admin", domain.RoleStudent, true},
		{"organizer", domain.RoleAdmin, false},
		{"organizer", domain.RoleOrganizer, true},
		{"student", domain.RoleOrganizer, false},
		{"student", domain.RoleStudent, true},
		{"janitor", domain.RoleStudent, false},
		{"admin", domain.UserRole("superuser"), false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+string(tt.required), func(t *testing.T) {
			u := &domain.User{Role: tt.role}
			assert.Equal(t, tt.want, u.HasRole(tt.required))
		})
	}

	var nobody *domain.User
	assert.False(t, nobody.HasRole(domain.RoleStudent))
}

func TestPageOf(t *testing.T) {
	roster := []int{1, 2, 3, 4, 5}

	page := domain.PageOf(roster, domain.PaginationParams{Page: 2, PageSize: 2})
	assert.Equal(t, []int{3, 4}, page.Data)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrev)

	past := domain.PageOf(roster, domain.PaginationParams{Page: 9, PageSize: 2})
	assert.Empty(t, past.Data)
	assert.NotNil(t, past.Data)
	assert.False(t, past.HasNext)

	clamped := domain.PageOf(roster, domain.PaginationParams{Page: 0, PageSize: 500})
	assert.Equal(t, 1, clamped.Page)
	assert.Equal(t, domain.MaxPageSize, clamped.PageSize)
	assert.Len(t, clamped.Data, 5)

	empty := domain.PageOf([]int(nil), domain.DefaultPagination())
	assert.NotNil(t, empty.Data)
	assert.Zero(t, empty.TotalPages)
}
