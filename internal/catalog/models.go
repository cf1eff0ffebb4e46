package catalog

import melodiacatalog "github.com/MelodiApp/melodia-backoffice-sub000/catalog"

type (
	ItemType         = melodiacatalog.ItemType
	Song             = melodiacatalog.Song
	Collection       = melodiacatalog.Collection
	Item             = melodiacatalog.Item
	StateChangeEvent = melodiacatalog.StateChangeEvent
)

const (
	ItemTypeSong       = melodiacatalog.ItemTypeSong
	ItemTypeCollection = melodiacatalog.ItemTypeCollection
)
