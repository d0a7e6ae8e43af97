// Package contractor owns the contractor directory branch: the fetched set,
// filters, search query, selection and pagination.
package contractor

import (
	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
)

const (
	TypeFetch              = "contractor/fetchContractors"
	TypeSearch             = "contractor/searchContractors"
	TypeFetchByID          = "contractor/fetchContractorById"
	TypeSetFilters         = "contractor/setFilters"
	TypeClearFilters       = "contractor/clearFilters"
	TypeSetSearchQuery     = "contractor/setSearchQuery"
	TypeSetSelected        = "contractor/setSelectedContractor"
	TypeClearSelected      = "contractor/clearSelectedContractor"
	TypeSetPage            = "contractor/setPage"
	TypeSetItemsPerPage    = "contractor/setItemsPerPage"
	TypeApplyLocalFilters  = "contractor/applyLocalFilters"
	TypeClearError         = "contractor/clearError"
	TypeUpsertContractor   = "contractor/upsertContractor"
	DefaultItemsPerPage    = 12
	defaultFirstPageNumber = 1
)

// State is the contractor branch. The filtered view is not stored; it is
// derived from Contractors, Filters and SearchQuery by FilterContractors.
type State struct {
	Contractors        []entity.Contractor   `json:"contractors"`
	SelectedContractor *entity.Contractor    `json:"selectedContractor,omitempty"`
	Filters            dto.ContractorFilters `json:"filters"`
	SearchQuery        string                `json:"searchQuery,omitempty"`
	// RemoteQuery is the query the current Contractors were searched with.
	RemoteQuery string `json:"remoteQuery,omitempty"`
	IsLoading   bool   `json:"isLoading"`
	Error       string `json:"error,omitempty"`
	// Pagination pages the fetched Contractors locally.
	Pagination dto.Pagination `json:"pagination"`
	// ServerPagination is the page the API served, when it pages.
	ServerPagination *dto.Pagination `json:"serverPagination,omitempty"`

	// Only the latest list/search and detail requests may settle state.
	ListRequestID   uint64 `json:"listRequestId"`
	DetailRequestID uint64 `json:"detailRequestId"`
}

func InitialState() *State {
	return &State{
		Contractors: []entity.Contractor{},
		Pagination: dto.Pagination{
			CurrentPage:  defaultFirstPageNumber,
			ItemsPerPage: DefaultItemsPerPage,
		},
	}
}

func (s *State) clone() *State {
	next := *s
	return &next
}
