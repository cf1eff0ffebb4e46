package scheduler

import "github.com/google/uuid"

const (
	JobTypeSongPublish       = "melodia.song.publish"
	JobTypeCollectionPublish = "melodia.collection.publish"
)

func SongPublishJobKey(id uuid.UUID) string {
	return "song:" + id.String() + ":publish"
}

func CollectionPublishJobKey(id uuid.UUID) string {
	return "collection:" + id.String() + ":publish"
}
