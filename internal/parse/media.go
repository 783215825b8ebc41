package parse

import (
	"fmt"
	"path"
	"strings"

	"github.com/ppiankov/crosswiki/internal/model"
	"github.com/ppiankov/crosswiki/internal/textutil"
)

// MediaRegistry accumulates deduplicated media assets during one parse call.
// Assets are keyed by filename; repeated registrations append a usage record
// instead of creating a new entry.
type MediaRegistry struct {
	items   []model.Media
	byFile  map[string]int
	idTaken map[string]bool
}

// NewMediaRegistry creates an empty registry
func NewMediaRegistry() *MediaRegistry {
	return &MediaRegistry{
		byFile:  make(map[string]int),
		idTaken: make(map[string]bool),
	}
}

// Register records one occurrence of a media asset and returns its stable ID.
// The usage record's sentence link starts empty and is back-filled later via
// LinkSentence.
func (r *MediaRegistry) Register(filename, caption, alt string, origin model.MediaOrigin, context, sectionID string) string {
	key := strings.ToLower(strings.TrimSpace(filename))

	usage := model.MediaUsage{Context: context, SectionID: sectionID}

	if idx, ok := r.byFile[key]; ok {
		r.items[idx].Usage = append(r.items[idx].Usage, usage)
		if r.items[idx].Caption == "" && caption != "" {
			r.items[idx].Caption = caption
		}
		return r.items[idx].MediaID
	}

	id := r.uniqueID(textutil.Slugify(filename))
	r.items = append(r.items, model.Media{
		MediaID: id,
		Title:   strings.TrimSpace(filename),
		Type:    mediaTypeOf(filename),
		Origin:  origin,
		Caption: caption,
		AltText: alt,
		License: nil,
		Usage:   []model.MediaUsage{usage},
	})
	r.byFile[key] = len(r.items) - 1
	return id
}

// LinkSentence fills the first still-unlinked usage slot of the asset, in
// FIFO order. A call for a fully linked asset is a no-op.
func (r *MediaRegistry) LinkSentence(mediaID, sentenceID string) {
	for i := range r.items {
		if r.items[i].MediaID != mediaID {
			continue
		}
		for j := range r.items[i].Usage {
			if r.items[i].Usage[j].SentenceID == nil {
				sid := sentenceID
				r.items[i].Usage[j].SentenceID = &sid
				return
			}
		}
		return
	}
}

// Media returns the accumulated flat collection in registration order
func (r *MediaRegistry) Media() []model.Media {
	return r.items
}

// uniqueID appends a numeric disambiguator when two distinct filenames
// collapse to the same slug.
func (r *MediaRegistry) uniqueID(slug string) string {
	if slug == "" {
		slug = "media"
	}
	id := slug
	for n := 2; r.idTaken[id]; n++ {
		id = fmt.Sprintf("%s-%d", slug, n)
	}
	r.idTaken[id] = true
	return id
}

func mediaTypeOf(filename string) model.MediaType {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "jpg", "jpeg", "png", "gif", "svg", "webp", "tif", "tiff", "bmp":
		return model.MediaImage
	case "ogg", "oga", "mp3", "wav", "flac", "mid":
		return model.MediaAudio
	case "ogv", "mp4", "webm", "mov", "avi":
		return model.MediaVideo
	default:
		return model.MediaUnknown
	}
}
