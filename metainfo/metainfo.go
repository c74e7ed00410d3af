// Package metainfo reads BitTorrent metainfo (.torrent) files.
//
// Textual fields are classified through Advisor while decoding, so they come
// back as text; piece hashes and unknown fields stay opaque bytes. The info
// hash is the SHA-1 of the canonical encoding of the info dictionary.
package metainfo

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/unkn0wn-root/bencode"
)

// PieceHashSize is the length of one SHA-1 piece hash.
const PieceHashSize = 20

var ErrInvalidMetaInfo = errors.New("metainfo: invalid metainfo")

// Advisor classifies the textual metainfo fields.
var Advisor = bencode.TextPaths(
	"announce",
	"announce-list",
	"comment",
	"created by",
	"encoding",
	"info/name",
	"info/name.utf-8",
	"info/files/path",
	"info/files/path.utf-8",
	"url-list",
)

type File struct {
	Length int64
	Path   []string
}

type Info struct {
	Name        string
	PieceLength int64
	Pieces      [][PieceHashSize]byte
	Length      int64  // single-file mode
	Files       []File // multi-file mode
	Private     bool
}

type MetaInfo struct {
	Announce     string
	AnnounceList [][]string
	URLList      []string
	Comment      string
	CreatedBy    string
	CreationDate time.Time // zero when absent
	Encoding     string
	Info         Info
	InfoHash     bencode.Digest
	// InfoBytes is the info value as found in the parsed file; nil from FromValue.
	InfoBytes []byte

	// Raw is the decoded document, including fields not mapped above.
	Raw bencode.Value
}

// TotalLength is the content size in bytes across all files.
func (m *MetaInfo) TotalLength() int64 {
	if len(m.Info.Files) == 0 {
		return m.Info.Length
	}
	var n int64
	for _, f := range m.Info.Files {
		n += f.Length
	}
	return n
}

// MultiFile reports whether the torrent uses the files list.
func (m *MetaInfo) MultiFile() bool { return len(m.Info.Files) > 0 }

// Parse decodes data with Advisor and maps it onto a MetaInfo.
func Parse(data []byte) (*MetaInfo, error) {
	return ParseWith(bencode.NewDecoder(bencode.DecoderOptions{Advisor: Advisor}), data)
}

// ParseWith is Parse with a caller-configured decoder (limits, logger). The
// decoder's advisor is used as is. InfoHash is the SHA-1 of the info value
// exactly as it appears in data, so files with unsorted or duplicate keys
// hash the same as in other clients.
func ParseWith(d *bencode.Decoder, data []byte) (*MetaInfo, error) {
	v, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("metainfo: %w", err)
	}
	m, err := FromValue(v)
	if err != nil {
		return nil, err
	}
	raw, err := rawInfo(data)
	if err != nil {
		return nil, fmt.Errorf("metainfo: %w", err)
	}
	m.InfoBytes = raw
	m.InfoHash = bencode.SumEncoded(raw)
	return m, nil
}

// rawInfo returns the top-level info value as it appears in data. The last
// occurrence wins, like Value.Get. data must already be a valid document.
func rawInfo(data []byte) ([]byte, error) {
	// data passed the caller's decoder; never reject it for depth here
	dec := bencode.NewDecoder(bencode.DecoderOptions{MaxDepth: math.MaxInt})
	var info []byte
	off := 1 // 'd'
	for off < len(data) && data[off] != 'e' {
		key, n, err := dec.DecodePrefix(data[off:])
		if err != nil {
			return nil, err
		}
		off += n
		_, n, err = dec.DecodePrefix(data[off:])
		if err != nil {
			return nil, err
		}
		if key.Str() == "info" {
			info = data[off : off+n : off+n]
		}
		off += n
	}
	if info == nil {
		return nil, invalid("info", "missing")
	}
	return info, nil
}

// FromValue maps an already decoded document. Byte strings are read by
// content, so a document decoded without Advisor works too. Without the
// source bytes InfoHash hashes the canonical encoding of info, which equals
// the raw hash only for canonically encoded files.
func FromValue(v bencode.Value) (*MetaInfo, error) {
	if v.Kind() != bencode.KindDict {
		return nil, invalid("", "root is not a dictionary")
	}
	m := &MetaInfo{Raw: v}
	var err error

	if m.Announce, err = optString(v, "announce"); err != nil {
		return nil, err
	}
	if m.Comment, err = optString(v, "comment"); err != nil {
		return nil, err
	}
	if m.CreatedBy, err = optString(v, "created by"); err != nil {
		return nil, err
	}
	if m.Encoding, err = optString(v, "encoding"); err != nil {
		return nil, err
	}
	if cd, ok := v.Get("creation date"); ok {
		if cd.Kind() != bencode.KindInt {
			return nil, invalid("creation date", "not an integer")
		}
		m.CreationDate = time.Unix(cd.Int(), 0).UTC()
	}
	if al, ok := v.Get("announce-list"); ok {
		if m.AnnounceList, err = announceList(al); err != nil {
			return nil, err
		}
	}
	if ul, ok := v.Get("url-list"); ok {
		// single URL or a list of them
		if ul.IsByteString() {
			m.URLList = []string{ul.Str()}
		} else if m.URLList, err = stringList("url-list", ul); err != nil {
			return nil, err
		}
	}

	info, ok := v.Get("info")
	if !ok {
		return nil, invalid("info", "missing")
	}
	if info.Kind() != bencode.KindDict {
		return nil, invalid("info", "not a dictionary")
	}
	if m.Info, err = parseInfo(info); err != nil {
		return nil, err
	}
	m.InfoHash = bencode.Sum(info)
	return m, nil
}

func parseInfo(info bencode.Value) (Info, error) {
	var out Info
	var err error

	name, ok := info.Get("name")
	if !ok || !name.IsByteString() {
		return out, invalid("info/name", "missing")
	}
	out.Name = name.Str()

	pl, ok := info.Get("piece length")
	if !ok || pl.Kind() != bencode.KindInt || pl.Int() <= 0 {
		return out, invalid("info/piece length", "missing or not positive")
	}
	out.PieceLength = pl.Int()

	pieces, ok := info.Get("pieces")
	if !ok || !pieces.IsByteString() {
		return out, invalid("info/pieces", "missing")
	}
	raw := pieces.Str()
	if len(raw)%PieceHashSize != 0 {
		return out, invalid("info/pieces", fmt.Sprintf("length %d is not a multiple of %d", len(raw), PieceHashSize))
	}
	out.Pieces = make([][PieceHashSize]byte, len(raw)/PieceHashSize)
	for i := range out.Pieces {
		copy(out.Pieces[i][:], raw[i*PieceHashSize:])
	}

	length, hasLength := info.Get("length")
	files, hasFiles := info.Get("files")
	switch {
	case hasLength && hasFiles:
		return out, invalid("info", "both length and files present")
	case hasLength:
		if length.Kind() != bencode.KindInt || length.Int() < 0 {
			return out, invalid("info/length", "not a non-negative integer")
		}
		out.Length = length.Int()
	case hasFiles:
		if out.Files, err = parseFiles(files); err != nil {
			return out, err
		}
	default:
		return out, invalid("info", "no length or files field")
	}

	if p, ok := info.Get("private"); ok {
		if p.Kind() != bencode.KindInt {
			return out, invalid("info/private", "not an integer")
		}
		out.Private = p.Int() == 1
	}
	return out, nil
}

func parseFiles(files bencode.Value) ([]File, error) {
	if files.Kind() != bencode.KindList || files.Len() == 0 {
		return nil, invalid("info/files", "not a non-empty list")
	}
	out := make([]File, 0, files.Len())
	for i, f := range files.List() {
		field := fmt.Sprintf("info/files[%d]", i)
		if f.Kind() != bencode.KindDict {
			return nil, invalid(field, "not a dictionary")
		}
		l, ok := f.Get("length")
		if !ok || l.Kind() != bencode.KindInt || l.Int() < 0 {
			return nil, invalid(field+"/length", "missing or negative")
		}
		p, ok := f.Get("path")
		if !ok {
			return nil, invalid(field+"/path", "missing")
		}
		path, err := stringList(field+"/path", p)
		if err != nil {
			return nil, err
		}
		if len(path) == 0 {
			return nil, invalid(field+"/path", "empty")
		}
		out = append(out, File{Length: l.Int(), Path: path})
	}
	return out, nil
}

func announceList(v bencode.Value) ([][]string, error) {
	if v.Kind() != bencode.KindList {
		return nil, invalid("announce-list", "not a list")
	}
	out := make([][]string, 0, v.Len())
	for i, tier := range v.List() {
		urls, err := stringList(fmt.Sprintf("announce-list[%d]", i), tier)
		if err != nil {
			return nil, err
		}
		out = append(out, urls)
	}
	return out, nil
}

func stringList(field string, v bencode.Value) ([]string, error) {
	if v.Kind() != bencode.KindList {
		return nil, invalid(field, "not a list")
	}
	out := make([]string, 0, v.Len())
	for _, it := range v.List() {
		if !it.IsByteString() {
			return nil, invalid(field, "element is not a string")
		}
		out = append(out, it.Str())
	}
	return out, nil
}

func optString(v bencode.Value, key string) (string, error) {
	s, ok := v.Get(key)
	if !ok {
		return "", nil
	}
	if !s.IsByteString() {
		return "", invalid(key, "not a string")
	}
	return s.Str(), nil
}

func invalid(field, reason string) error {
	if field == "" {
		return fmt.Errorf("%w: %s", ErrInvalidMetaInfo, reason)
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidMetaInfo, field, reason)
}
