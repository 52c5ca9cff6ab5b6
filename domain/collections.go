package domain

const (
	CollectionMetadata = "metadata"
)
const (
	CollectionAlbum = "metadata_albums"
)
const (
	CollectionEquipmentArtist = "metadata_equipment_artists"
)
const (
	CollectionEquipmentAlbum = "metadata_equipment_albums"
)
const (
	CollectionNotification = "metadata_notifications"
)
const (
	CollectionBackfillFailure = "metadata_backfill_failures"
)
