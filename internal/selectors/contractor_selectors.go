package selectors

import (
	"slices"
	"strings"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/slice/contractor"
	"buildhub-state/pkg/selector"
)

func SelectContractors(s Root) []entity.Contractor  { return s.Contractor.Contractors }
func SelectFilters(s Root) dto.ContractorFilters    { return s.Contractor.Filters }
func SelectSearchQuery(s Root) string               { return s.Contractor.SearchQuery }
func SelectRemoteQuery(s Root) string               { return s.Contractor.RemoteQuery }
func SelectContractorsLoading(s Root) bool          { return s.Contractor.IsLoading }
func SelectContractorError(s Root) string           { return s.Contractor.Error }
func SelectPagination(s Root) dto.Pagination        { return s.Contractor.Pagination }
func SelectServerPagination(s Root) *dto.Pagination { return s.Contractor.ServerPagination }
func SelectHasActiveFilters(s Root) bool {
	return contractor.HasActiveFilters(s.Contractor.Filters) || strings.TrimSpace(s.Contractor.SearchQuery) != ""
}
func SelectSelectedContractor(s Root) *entity.Contractor {
	return s.Contractor.SelectedContractor
}

// SelectFilteredContractors is the directory narrowed by filters and query.
var SelectFilteredContractors = selector.Create4(SelectContractors, SelectFilters, SelectSearchQuery, SelectRemoteQuery,
	contractor.FilterContractors)

// SelectPaginatedContractors is the current page of the filtered set.
var SelectPaginatedContractors = selector.Create2(SelectFilteredContractors, SelectPagination,
	func(list []entity.Contractor, p dto.Pagination) []entity.Contractor {
		return contractor.PageOf(list, p.CurrentPage, p.ItemsPerPage)
	})

var SelectVerifiedContractors = selector.Create1(SelectContractors, func(list []entity.Contractor) []entity.Contractor {
	out := []entity.Contractor{}
	for _, c := range list {
		if c.Verified {
			out = append(out, c)
		}
	}
	return out
})

var SelectContractorStats = selector.Create1(SelectContractors, func(list []entity.Contractor) *dto.ContractorStats {
	stats := &dto.ContractorStats{Specialties: []string{}, Locations: []string{}}
	seenSpecialty := map[string]bool{}
	seenLocation := map[string]bool{}
	var ratingSum float64
	for _, c := range list {
		stats.Total++
		if c.Verified {
			stats.Verified++
		}
		ratingSum += c.Rating
		for _, sp := range c.Specialties {
			if !seenSpecialty[sp] {
				seenSpecialty[sp] = true
				stats.Specialties = append(stats.Specialties, sp)
			}
		}
		if c.Location != "" && !seenLocation[c.Location] {
			seenLocation[c.Location] = true
			stats.Locations = append(stats.Locations, c.Location)
		}
	}
	if stats.Total > 0 {
		stats.AverageRating = ratingSum / float64(stats.Total)
	}
	return stats
})

func ContractorsBySpecialty(specialty string) selector.Selector[Root, []entity.Contractor] {
	return selector.Create1(SelectContractors, func(list []entity.Contractor) []entity.Contractor {
		return contractor.FilterContractors(list, dto.ContractorFilters{Specialty: specialty}, "", "")
	})
}

// TopRatedContractors returns the n best rated contractors, highest first.
func TopRatedContractors(n int) selector.Selector[Root, []entity.Contractor] {
	return selector.Create1(SelectContractors, func(list []entity.Contractor) []entity.Contractor {
		sorted := slices.Clone(list)
		slices.SortStableFunc(sorted, func(a, b entity.Contractor) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			}
			return 0
		})
		if n < len(sorted) {
			sorted = sorted[:max(n, 0)]
		}
		return sorted
	})
}
