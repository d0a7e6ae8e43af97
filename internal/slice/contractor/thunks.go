package contractor

import (
	"context"
	"strings"
	"time"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/apierror"
	"buildhub-state/pkg/store"
)

const (
	MsgQueryRequired = "Search query is required"
	MsgIDRequired    = "Contractor id is required"
)

// API is the marketplace REST collaborator.
type API interface {
	ListContractors(ctx context.Context, params dto.ListContractorsParams) (dto.ContractorListResponse, error)
	SearchContractors(ctx context.Context, query string) ([]entity.Contractor, error)
	GetContractor(ctx context.Context, id string) (*entity.Contractor, error)
}

type Options struct {
	API API
	// Timeout bounds each request. Zero means no timeout.
	Timeout time.Duration
}

type Thunks struct {
	FetchContractors    *store.AsyncThunk[dto.ListContractorsParams, dto.ContractorListResponse]
	SearchContractors   *store.AsyncThunk[string, []entity.Contractor]
	FetchContractorByID *store.AsyncThunk[string, *entity.Contractor]

	opts Options
}

func NewThunks(opts Options) *Thunks {
	t := &Thunks{opts: opts}
	t.FetchContractors = store.NewAsyncThunk(TypeFetch, t.fetch)
	t.SearchContractors = store.NewAsyncThunk(TypeSearch, t.search)
	t.FetchContractorByID = store.NewAsyncThunk(TypeFetchByID, t.fetchByID)
	return t
}

func (t *Thunks) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.opts.Timeout > 0 {
		return context.WithTimeout(ctx, t.opts.Timeout)
	}
	return ctx, func() {}
}

func (t *Thunks) fetch(ctx context.Context, params dto.ListContractorsParams, _ store.ThunkAPI) (dto.ContractorListResponse, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = DefaultItemsPerPage
	}
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	resp, err := t.opts.API.ListContractors(ctx, params)
	return resp, rejectAPI(err)
}

func (t *Thunks) search(ctx context.Context, query string, _ store.ThunkAPI) ([]entity.Contractor, error) {
	if strings.TrimSpace(query) == "" {
		return nil, store.RejectWithValue(MsgQueryRequired)
	}
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	list, err := t.opts.API.SearchContractors(ctx, strings.TrimSpace(query))
	return list, rejectAPI(err)
}

func (t *Thunks) fetchByID(ctx context.Context, id string, _ store.ThunkAPI) (*entity.Contractor, error) {
	if strings.TrimSpace(id) == "" {
		return nil, store.RejectWithValue(MsgIDRequired)
	}
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	c, err := t.opts.API.GetContractor(ctx, id)
	return c, rejectAPI(err)
}

// rejectAPI surfaces normalized API errors as the rejection payload.
func rejectAPI(err error) error {
	if apiErr, ok := apierror.As(err); ok {
		return store.RejectWithValue(apiErr)
	}
	return err
}
