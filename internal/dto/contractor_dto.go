package dto

import "buildhub-state/internal/entity"

// ContractorFilters narrows the directory. Zero values mean "any".
type ContractorFilters struct {
	Specialty     string  `json:"specialty,omitempty"`
	Location      string  `json:"location,omitempty"`
	MinRating     float64 `json:"minRating,omitempty"`
	MaxHourlyRate float64 `json:"maxHourlyRate,omitempty"`
	VerifiedOnly  bool    `json:"verifiedOnly,omitempty"`
	Availability  string  `json:"availability,omitempty"`
}

// ContractorFiltersPatch is a partial update; nil fields are left alone.
type ContractorFiltersPatch struct {
	Specialty     *string  `json:"specialty,omitempty"`
	Location      *string  `json:"location,omitempty"`
	MinRating     *float64 `json:"minRating,omitempty" validate:"omitempty,gte=0,lte=5"`
	MaxHourlyRate *float64 `json:"maxHourlyRate,omitempty" validate:"omitempty,gte=0"`
	VerifiedOnly  *bool    `json:"verifiedOnly,omitempty"`
	Availability  *string  `json:"availability,omitempty"`
}

type ListContractorsParams struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type ContractorListResponse struct {
	Contractors []entity.Contractor `json:"contractors"`
	Pagination  *Pagination         `json:"pagination,omitempty"`
}

type ContractorStats struct {
	Total         int      `json:"total"`
	Verified      int      `json:"verified"`
	AverageRating float64  `json:"averageRating"`
	Specialties   []string `json:"specialties"`
	Locations     []string `json:"locations"`
}

type SearchContractorsRequest struct {
	Query string `json:"q" query:"q" validate:"required"`
}

type SetPageRequest struct {
	Page         int `json:"page" validate:"omitempty,gte=1"`
	ItemsPerPage int `json:"itemsPerPage" validate:"omitempty,gte=1,lte=100"`
}

// ContractorPage is the directory view: the current page of the filtered
// set plus the inputs that produced it.
type ContractorPage struct {
	Contractors      []entity.Contractor `json:"contractors"`
	Pagination       Pagination          `json:"pagination"`
	ServerPagination *Pagination         `json:"serverPagination,omitempty"`
	Filters          ContractorFilters   `json:"filters"`
	SearchQuery      string              `json:"searchQuery"`
	HasActiveFilters bool                `json:"hasActiveFilters"`
	TotalFiltered    int                 `json:"totalFiltered"`
	IsLoading        bool                `json:"isLoading"`
	Error            string              `json:"error,omitempty"`
}
