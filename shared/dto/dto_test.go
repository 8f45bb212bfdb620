package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"stays/shared/constant"
	"stays/shared/dto"
	"stays/shared/model"
	"stays/shared/timezone"
)

func TestMetadata_FromModel(t *testing.T) {
	timezone.Set(time.UTC)

	created := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		source model.Metadata
		want   dto.Metadata
	}{
		{
			name:   "created and modified",
			source: model.Metadata{CreatedAt: created, CreatedBy: "user-1", ModifiedAt: created.Add(time.Hour), ModifiedBy: "admin-1"},
			want:   dto.Metadata{CreatedAt: "2026-01-01T12:00:00Z", CreatedBy: "user-1", ModifiedAt: "2026-01-01T13:00:00Z", ModifiedBy: "admin-1"},
		},
		{
			name:   "never modified",
			source: model.Metadata{CreatedAt: created, CreatedBy: constant.ContextGuest},
			want:   dto.Metadata{CreatedAt: "2026-01-01T12:00:00Z", CreatedBy: constant.ContextGuest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dto.Metadata{}
			got.FromModel(tt.source)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		withDefaults bool
		want         dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=check_in_date&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in_date", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			withDefaults: true,
			want: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name: "nothing without defaults",
			want: dto.QueryParams{},
		},
		{
			name:         "invalid numbers ignored",
			query:        "page=abc&limit=-5",
			withDefaults: true,
			want: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:  "limit capped",
			query: "limit=5000",
			want:  dto.QueryParams{Limit: dto.MaxLimit},
		},
		{
			name:  "table qualified sort column",
			query: "sort_by=bookings.final_amount&sort_dir=DESC",
			want:  dto.QueryParams{SortBy: "bookings.final_amount", SortDir: dto.SortDirDesc},
		},
		{
			name:  "sql in sort column rejected",
			query: "sort_by=created_at;DROP%20TABLE%20bookings&sort_dir=sideways",
			want:  dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			got := dto.QueryParams{}
			got.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	checkIn := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.room_id = :room_id",
			wantArgs:  map[string]any{"room_id": "r-1"},
		},
		{
			name:      "like",
			filter:    dto.Filter{Field: "name", Value: "suite", Operator: dto.FilterOperatorLike},
			wantWhere: "LOWER(name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%suite%"},
		},
		{
			name:      "in expands slice",
			filter:    dto.Filter{Field: "status", ArgName: "active", Value: []string{"draft", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:active_0, :active_1)",
			wantArgs:  map[string]any{"active_0": "draft", "active_1": "confirmed"},
		},
		{
			name:      "in with empty slice matches nothing",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "in with scalar degrades to eq",
			filter:    dto.Filter{Field: "status", Value: "draft", Operator: dto.FilterOperatorIn},
			wantWhere: "status = :status",
			wantArgs:  map[string]any{"status": "draft"},
		},
		{
			name:      "greater or equal with arg name",
			filter:    dto.Filter{Field: "check_out_date", ArgName: "check_in", Value: checkIn, Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "check_out_date >= :check_in",
			wantArgs:  map[string]any{"check_in": checkIn},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "user_id", Operator: dto.FilterIsNull, Table: "bookings"},
			wantWhere: "bookings.user_id IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "ignored", Operator: "between"},
			"not a filter",
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", Value: "draft", Operator: dto.FilterOperatorEq},
					dto.Filter{Field: "payment_status", Value: "pending", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :status OR payment_status = :payment_status))", where)
	assert.Equal(t, map[string]any{"room_id": "r-1", "status": "draft", "payment_status": "pending"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
