package contractor

import (
	"strings"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
)

// HasActiveFilters reports whether any filter narrows the directory.
func HasActiveFilters(f dto.ContractorFilters) bool {
	return f != dto.ContractorFilters{}
}

// FilterContractors applies filters and the free-text query. When remoteQuery
// equals query the list was already searched server-side and the text match
// is skipped. With nothing to apply, list itself is returned.
func FilterContractors(list []entity.Contractor, filters dto.ContractorFilters, query, remoteQuery string) []entity.Contractor {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == strings.ToLower(strings.TrimSpace(remoteQuery)) {
		query = ""
	}
	if query == "" && !HasActiveFilters(filters) {
		return list
	}

	out := make([]entity.Contractor, 0, len(list))
	for _, c := range list {
		if query != "" && !matchesQuery(c, query) {
			continue
		}
		if !matchesFilters(c, filters) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func matchesQuery(c entity.Contractor, q string) bool {
	if containsFold(c.Name, q) || containsFold(c.Company, q) || containsFold(c.Location, q) || containsFold(c.Description, q) {
		return true
	}
	for _, s := range c.Specialties {
		if containsFold(s, q) {
			return true
		}
	}
	return false
}

func matchesFilters(c entity.Contractor, f dto.ContractorFilters) bool {
	if f.Specialty != "" && !hasSpecialty(c, f.Specialty) {
		return false
	}
	if f.Location != "" && !containsFold(c.Location, strings.ToLower(f.Location)) {
		return false
	}
	if f.MinRating > 0 && c.Rating < f.MinRating {
		return false
	}
	if f.MaxHourlyRate > 0 && c.HourlyRate > f.MaxHourlyRate {
		return false
	}
	if f.VerifiedOnly && !c.Verified {
		return false
	}
	if f.Availability != "" && !strings.EqualFold(c.Availability, f.Availability) {
		return false
	}
	return true
}

func hasSpecialty(c entity.Contractor, specialty string) bool {
	for _, s := range c.Specialties {
		if strings.EqualFold(s, specialty) {
			return true
		}
	}
	return false
}

func containsFold(s, lowerSub string) bool {
	return strings.Contains(strings.ToLower(s), lowerSub)
}

// Paginate recomputes totals for total items at perPage, starting at page 1.
func Paginate(total, perPage int) dto.Pagination {
	if perPage <= 0 {
		perPage = DefaultItemsPerPage
	}
	return dto.Pagination{
		CurrentPage:  defaultFirstPageNumber,
		TotalPages:   (total + perPage - 1) / perPage,
		TotalItems:   total,
		ItemsPerPage: perPage,
	}
}

// PageOf returns the items of page (1-based). Out-of-range pages are empty.
func PageOf(list []entity.Contractor, page, perPage int) []entity.Contractor {
	if page < 1 || perPage < 1 {
		return []entity.Contractor{}
	}
	start := (page - 1) * perPage
	if start >= len(list) {
		return []entity.Contractor{}
	}
	end := min(start+perPage, len(list))
	return list[start:end]
}
