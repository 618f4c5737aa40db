package domain

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// MediaKind names the bucket prefix an uploaded file lives under.
type MediaKind string

const (
	MediaProfile MediaKind = "profile"
	MediaResume  MediaKind = "resume"
	MediaSSC     MediaKind = "ssc"
	MediaHSC     MediaKind = "hsc"
	MediaDiploma MediaKind = "diploma"
)

var ErrUnknownMediaKind = errors.New("unknown media kind")

var mediaKinds = map[MediaKind]struct{}{
	MediaProfile: {},
	MediaResume:  {},
	MediaSSC:     {},
	MediaHSC:     {},
	MediaDiploma: {},
}

// ParseMediaKind validates s against the known kinds.
func ParseMediaKind(s string) (MediaKind, error) {
	k := MediaKind(s)
	if _, ok := mediaKinds[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMediaKind, s)
	}
	return k, nil
}

// ObjectKey builds "<kind>/<identifier>_<unique><ext>". ext includes the
// leading dot or is empty.
func ObjectKey(kind MediaKind, identifier, unique, ext string) string {
	return fmt.Sprintf("%s/%s_%s%s", kind, identifier, unique, ext)
}

// MediaKey joins kind and a bare filename taken from a URL, rejecting
// anything that could escape the kind's prefix.
func MediaKey(kind MediaKind, filename string) (string, bool) {
	if filename == "" || filename == "." || filename == ".." {
		return "", false
	}
	if strings.ContainsAny(filename, `/\`) || path.Clean(filename) != filename {
		return "", false
	}
	return string(kind) + "/" + filename, true
}
