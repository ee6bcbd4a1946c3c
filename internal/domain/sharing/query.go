package sharing

import (
	"strings"

	"github.com/medsync/medsync/pkg/apperr"
)

// SortField names a column requests can be ordered by.
type SortField string

const (
	SortCreatedAt      SortField = "created_at"
	SortRequestedDate  SortField = "requested_date"
	SortRequiredByDate SortField = "required_by_date"
)

type Sort struct {
	Field SortField
	Desc  bool
}

// DefaultSort lists the newest requests first.
var DefaultSort = Sort{Field: SortCreatedAt, Desc: true}

// ParseSort reads keys of the form "field" or "-field". An empty key yields
// DefaultSort.
func ParseSort(key string) (Sort, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return DefaultSort, nil
	}
	s := Sort{}
	if rest, ok := strings.CutPrefix(key, "-"); ok {
		s.Desc = true
		key = rest
	}
	switch SortField(key) {
	case SortCreatedAt, SortRequestedDate, SortRequiredByDate:
		s.Field = SortField(key)
	default:
		return Sort{}, apperr.Invalid("unknown sort key: %s", key)
	}
	return s, nil
}

func (s Sort) String() string {
	if s.Desc {
		return "-" + string(s.Field)
	}
	return string(s.Field)
}

// StatusFilter selects requests for display. The zero value matches all.
type StatusFilter struct {
	status Status
}

// ParseStatusFilter accepts "", "all", or any known status.
func ParseStatusFilter(v string) (StatusFilter, error) {
	v = strings.TrimSpace(v)
	if v == "" || v == "all" {
		return StatusFilter{}, nil
	}
	st := Status(v)
	if !st.Valid() {
		return StatusFilter{}, apperr.Invalid("unknown status filter: %s", v)
	}
	return StatusFilter{status: st}, nil
}

func (f StatusFilter) All() bool { return f.status == "" }

func (f StatusFilter) Match(r *ResourceRequest) bool {
	return f.All() || r.Status == f.status
}

// FilterByStatus returns the requests f matches in their original order. The
// input is not modified.
func FilterByStatus(items []*ResourceRequest, f StatusFilter) []*ResourceRequest {
	out := make([]*ResourceRequest, 0, len(items))
	for _, r := range items {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
