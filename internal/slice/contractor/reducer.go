package contractor

import (
	"slices"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/pkg/store"
)

func SetFilters(patch dto.ContractorFiltersPatch) store.Action {
	return store.NewAction(TypeSetFilters, patch)
}
func ClearFilters() store.Action { return store.NewAction(TypeClearFilters, nil) }
func SetSearchQuery(q string) store.Action {
	return store.NewAction(TypeSetSearchQuery, q)
}
func SetSelectedContractor(c entity.Contractor) store.Action {
	return store.NewAction(TypeSetSelected, c)
}
func ClearSelectedContractor() store.Action { return store.NewAction(TypeClearSelected, nil) }
func SetPage(page int) store.Action         { return store.NewAction(TypeSetPage, page) }
func SetItemsPerPage(n int) store.Action    { return store.NewAction(TypeSetItemsPerPage, n) }
func ApplyLocalFilters() store.Action       { return store.NewAction(TypeApplyLocalFilters, nil) }
func ClearContractorError() store.Action    { return store.NewAction(TypeClearError, nil) }
func UpsertContractor(c entity.Contractor) store.Action {
	return store.NewAction(TypeUpsertContractor, c)
}

func Reducer(s *State, a store.Action) *State {
	switch a.Type {
	case TypeSetFilters:
		patch, ok := store.PayloadAs[dto.ContractorFiltersPatch](a)
		if !ok {
			return s
		}
		next := s.clone()
		next.Filters = mergeFilters(s.Filters, patch)
		next.Pagination.CurrentPage = defaultFirstPageNumber
		return next
	case TypeClearFilters:
		next := s.clone()
		next.Filters = dto.ContractorFilters{}
		next.SearchQuery = ""
		next.Pagination.CurrentPage = defaultFirstPageNumber
		return next
	case TypeSetSearchQuery:
		q, _ := store.PayloadAs[string](a)
		if q == s.SearchQuery {
			return s
		}
		next := s.clone()
		next.SearchQuery = q
		next.Pagination.CurrentPage = defaultFirstPageNumber
		return next

	case TypeSetSelected:
		c, ok := store.PayloadAs[entity.Contractor](a)
		if !ok {
			return s
		}
		next := s.clone()
		next.SelectedContractor = &c
		return next
	case TypeClearSelected:
		if s.SelectedContractor == nil {
			return s
		}
		next := s.clone()
		next.SelectedContractor = nil
		return next

	case TypeSetPage:
		page, _ := store.PayloadAs[int](a)
		if page < 1 || page == s.Pagination.CurrentPage {
			return s
		}
		next := s.clone()
		next.Pagination.CurrentPage = page
		return next
	case TypeSetItemsPerPage:
		per, _ := store.PayloadAs[int](a)
		if per < 1 || per == s.Pagination.ItemsPerPage {
			return s
		}
		next := s.clone()
		next.Pagination = Paginate(s.Pagination.TotalItems, per)
		return next
	case TypeApplyLocalFilters:
		filtered := FilterContractors(s.Contractors, s.Filters, s.SearchQuery, s.RemoteQuery)
		next := s.clone()
		next.Pagination = Paginate(len(filtered), s.Pagination.ItemsPerPage)
		return next

	case TypeClearError:
		if s.Error == "" {
			return s
		}
		next := s.clone()
		next.Error = ""
		return next

	case TypeUpsertContractor:
		c, ok := store.PayloadAs[entity.Contractor](a)
		if !ok || c.Id == "" {
			return s
		}
		next := s.clone()
		idx := slices.IndexFunc(s.Contractors, func(x entity.Contractor) bool { return x.Id == c.Id })
		if idx >= 0 {
			next.Contractors = slices.Clone(s.Contractors)
			next.Contractors[idx] = c
		} else {
			next.Contractors = append(slices.Clone(s.Contractors), c)
			next.Pagination.TotalItems++
			next.Pagination.TotalPages = Paginate(next.Pagination.TotalItems, next.Pagination.ItemsPerPage).TotalPages
		}
		if s.SelectedContractor != nil && s.SelectedContractor.Id == c.Id {
			selected := c
			next.SelectedContractor = &selected
		}
		return next

	case TypeFetch + "/" + store.StatusPending, TypeSearch + "/" + store.StatusPending:
		next := s.clone()
		next.IsLoading = true
		next.Error = ""
		next.ListRequestID = a.RequestID()
		return next
	case TypeFetch + "/" + store.StatusFulfilled:
		if a.RequestID() != s.ListRequestID {
			return s
		}
		resp, _ := store.PayloadAs[dto.ContractorListResponse](a)
		next := settled(s)
		next.Contractors = nonNil(resp.Contractors)
		next.RemoteQuery = ""
		next.ServerPagination = nil
		perPage := s.Pagination.ItemsPerPage
		if resp.Pagination != nil {
			served := *resp.Pagination
			next.ServerPagination = &served
			if served.ItemsPerPage > 0 {
				perPage = served.ItemsPerPage
			}
		}
		next.Pagination = Paginate(len(next.Contractors), perPage)
		return next
	case TypeSearch + "/" + store.StatusFulfilled:
		if a.RequestID() != s.ListRequestID {
			return s
		}
		results, _ := store.PayloadAs[[]entity.Contractor](a)
		next := settled(s)
		next.Contractors = nonNil(results)
		if a.Meta != nil {
			if q, ok := a.Meta.Arg.(string); ok {
				next.RemoteQuery = q
				next.SearchQuery = q
			}
		}
		next.ServerPagination = nil
		next.Pagination = Paginate(len(next.Contractors), s.Pagination.ItemsPerPage)
		return next
	case TypeFetch + "/" + store.StatusRejected, TypeSearch + "/" + store.StatusRejected:
		if a.RequestID() != s.ListRequestID {
			return s
		}
		next := settled(s)
		next.Error = store.RejectionMessage(a)
		return next

	case TypeFetchByID + "/" + store.StatusPending:
		next := s.clone()
		next.IsLoading = true
		next.Error = ""
		next.DetailRequestID = a.RequestID()
		return next
	case TypeFetchByID + "/" + store.StatusFulfilled:
		if a.RequestID() != s.DetailRequestID {
			return s
		}
		c, _ := store.PayloadAs[*entity.Contractor](a)
		next := settled(s)
		next.SelectedContractor = c
		return next
	case TypeFetchByID + "/" + store.StatusRejected:
		if a.RequestID() != s.DetailRequestID {
			return s
		}
		next := settled(s)
		next.Error = store.RejectionMessage(a)
		return next
	}
	return s
}

func settled(s *State) *State {
	next := s.clone()
	next.IsLoading = false
	next.Error = ""
	return next
}

func nonNil(list []entity.Contractor) []entity.Contractor {
	if list == nil {
		return []entity.Contractor{}
	}
	return list
}

func mergeFilters(f dto.ContractorFilters, p dto.ContractorFiltersPatch) dto.ContractorFilters {
	if p.Specialty != nil {
		f.Specialty = *p.Specialty
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.MinRating != nil {
		f.MinRating = *p.MinRating
	}
	if p.MaxHourlyRate != nil {
		f.MaxHourlyRate = *p.MaxHourlyRate
	}
	if p.VerifiedOnly != nil {
		f.VerifiedOnly = *p.VerifiedOnly
	}
	if p.Availability != nil {
		f.Availability = *p.Availability
	}
	return f
}
