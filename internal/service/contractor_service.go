package service

import (
	"context"

	"buildhub-state/internal/appstate"
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/internal/selectors"
	"buildhub-state/internal/slice/contractor"
)

type IContractorService interface {
	List(ctx context.Context, params dto.ListContractorsParams) (*dto.ContractorPage, error)
	Search(ctx context.Context, query string) (*dto.ContractorPage, error)
	Get(ctx context.Context, id string) (*entity.Contractor, error)
	Stats() *dto.ContractorStats
	Page() *dto.ContractorPage
	SetFilters(patch *dto.ContractorFiltersPatch) (*dto.ContractorPage, error)
	ClearFilters() *dto.ContractorPage
	SetPage(req *dto.SetPageRequest) (*dto.ContractorPage, error)
}

type contractorService struct {
	app *appstate.App
}

func NewContractorService(app *appstate.App) IContractorService {
	return &contractorService{app: app}
}

func (s *contractorService) List(ctx context.Context, params dto.ListContractorsParams) (*dto.ContractorPage, error) {
	if params.Limit <= 0 {
		params.Limit = s.app.State().Contractor.Pagination.ItemsPerPage
	}
	if params.Page <= 0 {
		params.Page = 1
	}
	if _, err := s.app.Contractor.FetchContractors.Dispatch(ctx, s.app.Store, params); err != nil {
		return nil, err
	}
	return s.Page(), nil
}

func (s *contractorService) Search(ctx context.Context, query string) (*dto.ContractorPage, error) {
	if _, err := s.app.Contractor.SearchContractors.Dispatch(ctx, s.app.Store, query); err != nil {
		return nil, err
	}
	return s.Page(), nil
}

// Get serves a contractor already in the directory, fetching it otherwise.
// Either way it becomes the selected contractor.
func (s *contractorService) Get(ctx context.Context, id string) (*entity.Contractor, error) {
	for _, c := range selectors.SelectContractors(s.app.State()) {
		if c.Id == id {
			s.app.Store.Dispatch(contractor.SetSelectedContractor(c))
			return selectors.SelectSelectedContractor(s.app.State()), nil
		}
	}
	c, err := s.app.Contractor.FetchContractorByID.Dispatch(ctx, s.app.Store, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *contractorService) Stats() *dto.ContractorStats {
	return selectors.SelectContractorStats(s.app.State())
}

func (s *contractorService) Page() *dto.ContractorPage {
	state := s.app.State()
	return &dto.ContractorPage{
		Contractors:      selectors.SelectPaginatedContractors(state),
		Pagination:       selectors.SelectPagination(state),
		ServerPagination: selectors.SelectServerPagination(state),
		Filters:          selectors.SelectFilters(state),
		SearchQuery:      selectors.SelectSearchQuery(state),
		HasActiveFilters: selectors.SelectHasActiveFilters(state),
		TotalFiltered:    len(selectors.SelectFilteredContractors(state)),
		IsLoading:        selectors.SelectContractorsLoading(state),
		Error:            selectors.SelectContractorError(state),
	}
}

// SetFilters merges patch into the filters and re-paginates the local set.
func (s *contractorService) SetFilters(patch *dto.ContractorFiltersPatch) (*dto.ContractorPage, error) {
	if err := validation.Validator().Struct(patch); err != nil {
		return nil, err
	}
	s.app.Store.Dispatch(contractor.SetFilters(*patch))
	s.app.Store.Dispatch(contractor.ApplyLocalFilters())
	return s.Page(), nil
}

func (s *contractorService) ClearFilters() *dto.ContractorPage {
	s.app.Store.Dispatch(contractor.ClearFilters())
	s.app.Store.Dispatch(contractor.ApplyLocalFilters())
	return s.Page()
}

func (s *contractorService) SetPage(req *dto.SetPageRequest) (*dto.ContractorPage, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return nil, err
	}
	if req.ItemsPerPage > 0 {
		s.app.Store.Dispatch(contractor.SetItemsPerPage(req.ItemsPerPage))
	}
	if req.Page > 0 {
		s.app.Store.Dispatch(contractor.SetPage(req.Page))
	}
	return s.Page(), nil
}
