package catalog

import melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"

type (
	Service                 = melodiacatalog.Service
	ChangeStateRequest      = melodiacatalog.ChangeStateRequest
	CreateSongRequest       = melodiacatalog.CreateSongRequest
	CreateCollectionRequest = melodiacatalog.CreateCollectionRequest

	NotFoundError = melodiacatalog.NotFoundError
)

var (
	ErrItemIDRequired     = melodiacatalog.ErrItemIDRequired
	ErrItemTypeInvalid    = melodiacatalog.ErrItemTypeInvalid
	ErrStateUnknown       = melodiacatalog.ErrStateUnknown
	ErrActorRequired      = melodiacatalog.ErrActorRequired
	ErrTitleRequired      = melodiacatalog.ErrTitleRequired
	ErrSlugRequired       = melodiacatalog.ErrSlugRequired
	ErrSlugInvalid        = melodiacatalog.ErrSlugInvalid
	ErrSlugExists         = melodiacatalog.ErrSlugExists
	ErrSchedulingDisabled = melodiacatalog.ErrSchedulingDisabled
)

var (
	NormalizeSlug = melodiacatalog.NormalizeSlug
	IsValidSlug   = melodiacatalog.IsValidSlug
)
