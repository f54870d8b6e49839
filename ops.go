package splink

// Native operation names, used in errors, logs and call accounting.
const (
	OpAddRef                 = "add_ref"
	OpRelease                = "release"
	OpLinkCreateFromString   = "link_create_from_string"
	OpLinkCreateFromTrack    = "link_create_from_track"
	OpLinkCreateFromAlbum    = "link_create_from_album"
	OpLinkCreateFromArtist   = "link_create_from_artist"
	OpLinkCreateFromPlaylist = "link_create_from_playlist"
	OpLinkCreateFromUser     = "link_create_from_user"
	OpLinkCreateFromImage    = "link_create_from_image"
	OpLinkAsString           = "link_as_string"
	OpLinkType               = "link_type"
	OpLinkAsTrack            = "link_as_track"
	OpLinkAsTrackAndOffset   = "link_as_track_and_offset"
	OpLinkAsAlbum            = "link_as_album"
	OpLinkAsArtist           = "link_as_artist"
	OpLinkAsUser             = "link_as_user"
	OpPlaylistCreate         = "playlist_create"
	OpImageCreateFromLink    = "image_create_from_link"
)
