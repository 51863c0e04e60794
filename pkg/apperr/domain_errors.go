package apperr

var (
	// Store-level domain errors. Repositories translate driver errors
	// (SQLSTATE 23505, pgx.ErrNoRows) into these at the storage boundary.
	ErrDuplicateChannel  = DuplicateEntry("channel already whitelisted for this user")
	ErrDuplicateCategory = DuplicateEntry("category name already in use for this user")
	ErrChannelNotFound   = NotFound("channel record not found")
	ErrCategoryNotFound  = NotFound("category not found")
	ErrSyncLogNotFound   = NotFound("sync log not found")
	ErrOwnerMismatch     = OwnershipMismatch("record belongs to a different user")
	ErrSyncLogResolved   = InvalidTransition("sync log already resolved")

	ErrInvalidDefaultView = InvalidValue("default_view must be one of: grid, list")
	ErrInvalidTheme       = InvalidValue("theme must be one of: auto, dark, light")
	ErrInvalidSyncKind    = InvalidValue("unknown sync kind")
)
