package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/sku_console/internal/filter"
	"github.com/GTDGit/sku_console/internal/inventory"
	"github.com/GTDGit/sku_console/internal/models"
	"github.com/GTDGit/sku_console/internal/sse"
	"github.com/GTDGit/sku_console/internal/utils"
	"github.com/GTDGit/sku_console/pkg/skuapi"
)

// User-facing messages for failures the server did not explain.
const (
	MsgSaveFailed       = "Failed to save SKU"
	MsgDeleteFailed     = "Failed to delete SKU"
	MsgInvalidLogin     = "Invalid username or password"
	MsgLoginNoToken     = "Login failed. Please try again."
	MsgLoginFailed      = "Login failed. Please check your credentials and try again."
	MsgSessionExpired   = "Your session has expired. Please sign in again."
	MsgLoadFailed       = "Failed to load SKUs"
	MsgCategoriesFailed = "Failed to load categories"
)

// Gateway is the SKU backend as used by the controller.
type Gateway interface {
	Login(ctx context.Context, username, password string) (string, error)
	List(ctx context.Context) ([]models.SKU, error)
	ListCategories(ctx context.Context) ([]string, error)
	Create(ctx context.Context, in models.SKUInput) (*models.SKU, error)
	Update(ctx context.Context, id int64, in models.SKUInput) (*models.SKU, error)
	Delete(ctx context.Context, id int64) error
}

// Credentials is the credential store as used by the controller.
type Credentials interface {
	IsAuthenticated() bool
	SetCredential(ctx context.Context, token string) error
	ClearCredential(ctx context.Context) error
}

// FailureError is a failed attempt whose Message should be shown to the user.
type FailureError struct {
	Message string
	Err     error
}

func (e *FailureError) Error() string { return e.Message }
func (e *FailureError) Unwrap() error { return e.Err }

// EditContext is an open add/edit dialog. EditingID is nil when adding.
type EditContext struct {
	EditingID *int64 `json:"editingId"`
	Draft     Draft  `json:"draft"`
	Error     string `json:"error,omitempty"`
}

// DeleteConfirmation is a pending delete awaiting an explicit yes.
type DeleteConfirmation struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	SkuCode string `json:"skuCode"`
	Prompt  string `json:"prompt"`
}

// Options configures an InventoryService.
type Options struct {
	RequiredFields    []string
	LowStockThreshold int
	Notifier          sse.Notifier
}

// InventoryService orchestrates login, loading, filtering and mutations. It
// owns the inventory cache exclusively; the filter engine only reads it.
//
// State transitions happen under mu. Network calls run outside mu; busy marks
// an in-flight login, save or delete so a second one is refused instead of
// submitted twice. Loads are serialised by loadMu so snapshots land in the
// order they were fetched, and a load that finishes after a logout is dropped.
type InventoryService struct {
	gateway   Gateway
	creds     Credentials
	validator *DraftValidator
	notifier  sse.Notifier

	loadMu sync.Mutex

	mu            sync.Mutex
	cache         *inventory.Cache
	filters       filter.State
	visible       []models.SKU
	authenticated bool
	epoch         uint64
	loading       bool
	busy          bool
	edit          *EditContext
	pendingDelete *DeleteConfirmation
	notice        string
}

// NewInventoryService constructs an InventoryService.
func NewInventoryService(gateway Gateway, creds Credentials, opts Options) (*InventoryService, error) {
	required := opts.RequiredFields
	if required == nil {
		required = DefaultRequiredFields
	}
	v, err := NewDraftValidator(required)
	if err != nil {
		return nil, err
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = sse.NopNotifier{}
	}
	s := &InventoryService{
		gateway:   gateway,
		creds:     creds,
		validator: v,
		notifier:  notifier,
		cache:     inventory.NewCache(opts.LowStockThreshold),
		filters:   filter.DefaultState(),
	}
	s.recomputeLocked()
	return s, nil
}

// Start checks the stored credential and, when it is still valid, loads the
// inventory.
func (s *InventoryService) Start(ctx context.Context) error {
	s.mu.Lock()
	s.authenticated = s.creds.IsAuthenticated()
	authed := s.authenticated
	if !authed {
		s.loading = false
	}
	s.mu.Unlock()

	if !authed {
		log.Info().Msg("No valid credential, waiting for login")
		return nil
	}
	return s.Load(ctx)
}

// IsAuthenticated reports the controller's view of the session. It also
// notices a credential that expired since the last check.
func (s *InventoryService) IsAuthenticated(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.authenticated && !s.creds.IsAuthenticated() {
		log.Info().Msg("Credential expired, logging out")
		s.logoutLocked(ctx)
		s.notice = MsgSessionExpired
	}
	return s.authenticated
}

// Login exchanges credentials for a token, stores it and loads the inventory.
func (s *InventoryService) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return utils.ErrBusy
	}
	s.busy = true
	s.mu.Unlock()

	token, err := s.gateway.Login(ctx, username, password)

	s.mu.Lock()
	s.busy = false
	if err != nil {
		s.mu.Unlock()
		log.Warn().Err(err).Str("username", username).Msg("Login failed")
		return &FailureError{Message: loginMessage(err), Err: err}
	}
	if err := s.creds.SetCredential(ctx, token); err != nil {
		s.mu.Unlock()
		log.Error().Err(err).Msg("Failed to persist credential")
		return &FailureError{Message: MsgLoginFailed, Err: err}
	}
	s.authenticated = true
	s.epoch++
	s.loading = true
	s.notice = ""
	s.notifier.NotifySessionChanged(true)
	s.mu.Unlock()

	log.Info().Str("username", username).Msg("Login successful")

	// a failed first load leaves the session open; the notice reports it
	if err := s.Load(ctx); errors.Is(err, utils.ErrSessionExpired) {
		return err
	}
	return nil
}

func loginMessage(err error) string {
	if skuapi.IsUnauthorized(err) {
		return MsgInvalidLogin
	}
	if errors.Is(err, skuapi.ErrMissingToken) {
		return MsgLoginNoToken
	}
	if v, ok := skuapi.AsValidation(err); ok {
		return v.Message
	}
	return MsgLoginFailed
}

// Logout clears the credential and every cached value.
func (s *InventoryService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	log.Info().Msg("Logging out")
	return s.logoutLocked(ctx)
}

// logoutLocked is shared by explicit and forced logout. Filter selections
// survive; everything derived from server data does not.
func (s *InventoryService) logoutLocked(ctx context.Context) error {
	err := s.creds.ClearCredential(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to clear credential")
	}
	s.authenticated = false
	s.epoch++
	s.loading = false
	s.edit = nil
	s.pendingDelete = nil
	s.cache.Clear()
	s.recomputeLocked()
	s.notifier.NotifySessionChanged(false)
	return err
}

// forceLogoutLocked handles a 401 from any call.
func (s *InventoryService) forceLogoutLocked(ctx context.Context, op string) error {
	log.Warn().Str("op", op).Msg("Backend rejected credential, forcing logout")
	s.logoutLocked(ctx)
	s.notice = MsgSessionExpired
	return fmt.Errorf("%s: %w", op, utils.ErrSessionExpired)
}

// Load fetches records and categories.
func (s *InventoryService) Load(ctx context.Context) error {
	return s.reload(ctx, true)
}

// Refresh reloads the inventory when logged in and idle. It is used by the
// background refresh worker.
func (s *InventoryService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	skip := !s.authenticated || s.busy
	s.mu.Unlock()
	if skip {
		return nil
	}
	return s.reload(ctx, true)
}

// reload replaces the snapshot with a fresh fetch. A failed records fetch
// keeps the last good snapshot; a 401 from either fetch forces logout.
func (s *InventoryService) reload(ctx context.Context, withCategories bool) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return utils.ErrNotAuthenticated
	}
	epoch := s.epoch
	s.loading = true
	s.mu.Unlock()

	records, recErr := s.gateway.List(ctx)

	var categories []string
	var catErr error
	if withCategories && !skuapi.IsUnauthorized(recErr) {
		categories, catErr = s.gateway.ListCategories(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		log.Debug().Msg("Discarding load that finished after session change")
		return utils.ErrNotAuthenticated
	}
	s.loading = false

	if skuapi.IsUnauthorized(recErr) {
		return s.forceLogoutLocked(ctx, "list skus")
	}
	if skuapi.IsUnauthorized(catErr) {
		return s.forceLogoutLocked(ctx, "list categories")
	}

	if recErr == nil {
		s.cache.ReplaceRecords(records)
		s.recomputeLocked()
		s.notifier.NotifyInventoryChanged(len(records))
		log.Info().Int("count", len(records)).Msg("SKUs loaded")
	} else {
		log.Error().Err(recErr).Msg("Failed to load SKUs")
	}
	if withCategories {
		if catErr == nil {
			s.cache.ReplaceCategories(categories)
		} else {
			log.Error().Err(catErr).Msg("Failed to load categories")
		}
	}

	switch {
	case recErr != nil:
		s.notice = MsgLoadFailed
		return &FailureError{Message: MsgLoadFailed, Err: recErr}
	case catErr != nil:
		s.notice = MsgCategoriesFailed
		return &FailureError{Message: MsgCategoriesFailed, Err: catErr}
	}
	return nil
}

// SetFilters replaces the whole filter state.
func (s *InventoryService) SetFilters(state filter.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = state.Normalize()
	s.recomputeLocked()
}

// Filters returns the current filter state.
func (s *InventoryService) Filters() filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetSearchTerm changes the free-text search.
func (s *InventoryService) SetSearchTerm(term string) {
	s.updateFilters(func(f *filter.State) { f.SearchTerm = term })
}

// SetCategory changes the category selector.
func (s *InventoryService) SetCategory(v string) {
	s.updateFilters(func(f *filter.State) { f.Category = v })
}

// SetStyleName changes the style selector.
func (s *InventoryService) SetStyleName(v string) {
	s.updateFilters(func(f *filter.State) { f.StyleName = v })
}

// SetColour changes the colour selector.
func (s *InventoryService) SetColour(v string) {
	s.updateFilters(func(f *filter.State) { f.Colour = v })
}

// SetSize changes the size selector.
func (s *InventoryService) SetSize(v string) {
	s.updateFilters(func(f *filter.State) { f.Size = v })
}

// ResetFilters clears the search and sets every selector back to all.
func (s *InventoryService) ResetFilters() {
	s.SetFilters(filter.DefaultState())
}

func (s *InventoryService) updateFilters(fn func(*filter.State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.filters)
	s.filters = s.filters.Normalize()
	s.recomputeLocked()
}

// recomputeLocked re-derives the visible subset from the cache and filters.
func (s *InventoryService) recomputeLocked() {
	s.visible = filter.VisibleRecords(s.cache.Records(), s.filters)
}

// BeginAdd opens an edit context with an empty draft.
func (s *InventoryService) BeginAdd() (EditContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return EditContext{}, utils.ErrNotAuthenticated
	}
	s.edit = &EditContext{}
	return *s.edit, nil
}

// BeginEdit opens an edit context pre-filled from the cached record with id.
func (s *InventoryService) BeginEdit(id int64) (EditContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return EditContext{}, utils.ErrNotAuthenticated
	}
	rec, ok := s.cache.Find(id)
	if !ok {
		return EditContext{}, utils.ErrSKUNotFound
	}
	s.edit = &EditContext{EditingID: &id, Draft: DraftFrom(rec)}
	return copyEdit(s.edit), nil
}

// UpdateDraft replaces the draft of the open edit context.
func (s *InventoryService) UpdateDraft(d Draft) (EditContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit == nil {
		return EditContext{}, utils.ErrNoEditContext
	}
	s.edit.Draft = d
	s.edit.Error = ""
	return copyEdit(s.edit), nil
}

// CancelEdit closes the edit context without saving.
func (s *InventoryService) CancelEdit() {
	s.mu.Lock()
	s.edit = nil
	s.mu.Unlock()
}

// Save validates the open draft locally and then creates or updates it. On
// success the edit context closes and records and categories are re-fetched.
// On failure the edit context stays open with the error attached.
func (s *InventoryService) Save(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return utils.ErrNotAuthenticated
	}
	if s.edit == nil {
		s.mu.Unlock()
		return utils.ErrNoEditContext
	}
	if s.busy {
		s.mu.Unlock()
		return utils.ErrBusy
	}
	input, err := s.validator.Validate(s.edit.Draft)
	if err != nil {
		s.edit.Error = err.Error()
		s.mu.Unlock()
		return err
	}
	editingID := s.edit.EditingID
	epoch := s.epoch
	s.busy = true
	s.mu.Unlock()

	if editingID != nil {
		_, err = s.gateway.Update(ctx, *editingID, input)
	} else {
		_, err = s.gateway.Create(ctx, input)
	}

	s.mu.Lock()
	s.busy = false
	if s.epoch != epoch {
		s.mu.Unlock()
		return utils.ErrNotAuthenticated
	}
	if err != nil {
		defer s.mu.Unlock()
		if skuapi.IsUnauthorized(err) {
			return s.forceLogoutLocked(ctx, "save sku")
		}
		msg := MsgSaveFailed
		if v, ok := skuapi.AsValidation(err); ok {
			msg = v.Message
		}
		log.Warn().Err(err).Msg("Failed to save SKU")
		if s.edit != nil {
			s.edit.Error = msg
		}
		s.notice = msg
		return &FailureError{Message: msg, Err: err}
	}
	s.edit = nil
	s.mu.Unlock()

	if editingID != nil {
		log.Info().Int64("id", *editingID).Str("sku_code", input.SkuCode).Msg("SKU updated")
	} else {
		log.Info().Str("sku_code", input.SkuCode).Msg("SKU created")
	}

	if err := s.reload(ctx, true); err != nil && errors.Is(err, utils.ErrSessionExpired) {
		return err
	}
	return nil
}

// RequestDelete opens the confirmation step for the cached record with id.
func (s *InventoryService) RequestDelete(id int64) (DeleteConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return DeleteConfirmation{}, utils.ErrNotAuthenticated
	}
	rec, ok := s.cache.Find(id)
	if !ok {
		return DeleteConfirmation{}, utils.ErrSKUNotFound
	}
	return s.requestDeleteLocked(rec), nil
}

// RequestDeleteRecord opens the confirmation step for rec as given.
func (s *InventoryService) RequestDeleteRecord(rec models.SKU) (DeleteConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.authenticated {
		return DeleteConfirmation{}, utils.ErrNotAuthenticated
	}
	return s.requestDeleteLocked(rec), nil
}

func (s *InventoryService) requestDeleteLocked(rec models.SKU) DeleteConfirmation {
	c := DeleteConfirmation{
		ID:      rec.ID,
		Name:    orNA(rec.Name),
		SkuCode: orNA(rec.SkuCode),
	}
	c.Prompt = fmt.Sprintf("Delete SKU %s (%s)? This action cannot be undone.", c.Name, c.SkuCode)
	s.pendingDelete = &c
	return c
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}

// CancelDelete dismisses the pending confirmation.
func (s *InventoryService) CancelDelete() {
	s.mu.Lock()
	s.pendingDelete = nil
	s.mu.Unlock()
}

// ConfirmDelete deletes the record awaiting confirmation. The confirmation
// is dismissed whatever the outcome; on success records are re-fetched.
func (s *InventoryService) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	if !s.authenticated {
		s.mu.Unlock()
		return utils.ErrNotAuthenticated
	}
	if s.pendingDelete == nil {
		s.mu.Unlock()
		return utils.ErrNoPendingDelete
	}
	if s.busy {
		s.mu.Unlock()
		return utils.ErrBusy
	}
	target := *s.pendingDelete
	epoch := s.epoch
	s.busy = true
	s.mu.Unlock()

	err := s.gateway.Delete(ctx, target.ID)

	s.mu.Lock()
	s.busy = false
	s.pendingDelete = nil
	if s.epoch != epoch {
		s.mu.Unlock()
		return utils.ErrNotAuthenticated
	}
	if err != nil {
		defer s.mu.Unlock()
		if skuapi.IsUnauthorized(err) {
			return s.forceLogoutLocked(ctx, "delete sku")
		}
		log.Warn().Err(err).Int64("id", target.ID).Msg("Failed to delete SKU")
		s.notice = MsgDeleteFailed
		return &FailureError{Message: MsgDeleteFailed, Err: err}
	}
	s.mu.Unlock()

	log.Info().Int64("id", target.ID).Str("sku_code", target.SkuCode).Msg("SKU deleted")

	if err := s.reload(ctx, false); err != nil && errors.Is(err, utils.ErrSessionExpired) {
		return err
	}
	return nil
}

// DismissNotice clears the last user-facing message.
func (s *InventoryService) DismissNotice() {
	s.mu.Lock()
	s.notice = ""
	s.mu.Unlock()
}

func copyEdit(e *EditContext) EditContext {
	out := *e
	if e.EditingID != nil {
		id := *e.EditingID
		out.EditingID = &id
	}
	return out
}
