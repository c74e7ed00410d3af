package metainfo

import (
	"crypto/sha1"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/unkn0wn-root/bencode"
)

var pieces = strings.Repeat("\x01", 20) + strings.Repeat("\x02", 20)

func singleFile() bencode.Value {
	return bencode.Dict(
		bencode.E("announce", bencode.Text("http://tracker.example/announce")),
		bencode.E("announce-list", bencode.List(
			bencode.List(bencode.Text("http://a/announce"), bencode.Text("http://b/announce")),
			bencode.List(bencode.Text("udp://c:80")),
		)),
		bencode.E("comment", bencode.Text("hello")),
		bencode.E("created by", bencode.Text("mktorrent 1.1")),
		bencode.E("creation date", bencode.Int(1700000000)),
		bencode.E("info", bencode.Dict(
			bencode.E("length", bencode.Int(40000)),
			bencode.E("name", bencode.Text("big-buck-bunny.mp4")),
			bencode.E("piece length", bencode.Int(32768)),
			bencode.E("pieces", bencode.Bytes([]byte(pieces))),
			bencode.E("private", bencode.Int(1)),
		)),
	)
}

func TestParseSingleFile(t *testing.T) {
	data := bencode.Encode(singleFile())
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Announce != "http://tracker.example/announce" || m.Comment != "hello" || m.CreatedBy != "mktorrent 1.1" {
		t.Fatalf("top-level fields: %+v", m)
	}
	if !m.CreationDate.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("creation date = %v", m.CreationDate)
	}
	if len(m.AnnounceList) != 2 || len(m.AnnounceList[0]) != 2 || m.AnnounceList[1][0] != "udp://c:80" {
		t.Fatalf("announce-list = %v", m.AnnounceList)
	}
	if m.Info.Name != "big-buck-bunny.mp4" || m.Info.PieceLength != 32768 || !m.Info.Private {
		t.Fatalf("info = %+v", m.Info)
	}
	if len(m.Info.Pieces) != 2 || m.Info.Pieces[1][0] != 2 {
		t.Fatalf("pieces = %v", m.Info.Pieces)
	}
	if m.MultiFile() || m.TotalLength() != 40000 {
		t.Fatalf("length = %d multi=%v", m.TotalLength(), m.MultiFile())
	}

	// textual fields are classified, piece hashes stay opaque
	if n, _ := m.Raw.Lookup("info", "name"); n.Kind() != bencode.KindText {
		t.Fatalf("info/name kind = %s", n.Kind())
	}
	if p, _ := m.Raw.Lookup("info", "pieces"); p.Kind() != bencode.KindBytes {
		t.Fatalf("info/pieces kind = %s", p.Kind())
	}
}

func TestInfoHash(t *testing.T) {
	doc := singleFile()
	info, _ := doc.Get("info")
	want := sha1.Sum(bencode.Encode(info))

	m, err := Parse(bencode.Encode(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if [20]byte(m.InfoHash) != want {
		t.Fatalf("info hash = %s", m.InfoHash)
	}

	// fields outside info do not affect the hash
	m2, err := FromValue(doc.With("comment", bencode.Text("changed")))
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if m2.InfoHash != m.InfoHash {
		t.Fatalf("info hash changed with comment")
	}
}

func TestParseMultiFile(t *testing.T) {
	doc := bencode.Dict(
		bencode.E("info", bencode.Dict(
			bencode.E("files", bencode.List(
				bencode.Dict(bencode.E("length", bencode.Int(10)), bencode.E("path", bencode.List(bencode.Text("a"), bencode.Text("b.txt")))),
				bencode.Dict(bencode.E("length", bencode.Int(5)), bencode.E("path", bencode.List(bencode.Text("c.txt")))),
			)),
			bencode.E("name", bencode.Text("dir")),
			bencode.E("piece length", bencode.Int(16)),
			bencode.E("pieces", bencode.Bytes([]byte(pieces[:20]))),
		)),
		bencode.E("url-list", bencode.Text("http://seed/")),
	)
	m, err := Parse(bencode.Encode(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !m.MultiFile() || m.TotalLength() != 15 {
		t.Fatalf("total = %d", m.TotalLength())
	}
	if strings.Join(m.Info.Files[0].Path, "/") != "a/b.txt" {
		t.Fatalf("path = %v", m.Info.Files[0].Path)
	}
	if len(m.URLList) != 1 || m.URLList[0] != "http://seed/" {
		t.Fatalf("url-list = %v", m.URLList)
	}
	if m.Announce != "" || m.Info.Private {
		t.Fatalf("optional fields should be empty: %+v", m)
	}
	if p, _ := m.Raw.Lookup("info", "files"); p.Len() != 2 {
		t.Fatalf("raw files = %v", p)
	}
}

func TestParseRejects(t *testing.T) {
	info := func(entries ...bencode.Entry) bencode.Value {
		return bencode.Dict(bencode.E("info", bencode.Dict(entries...)))
	}
	name := bencode.E("name", bencode.Text("n"))
	pl := bencode.E("piece length", bencode.Int(16))
	pc := bencode.E("pieces", bencode.Bytes([]byte(pieces[:20])))
	ln := bencode.E("length", bencode.Int(1))

	cases := []struct {
		name  string
		doc   bencode.Value
		field string
	}{
		{"root_list", bencode.List(), "root"},
		{"no_info", bencode.Dict(bencode.E("announce", bencode.Text("x"))), "info"},
		{"no_name", info(pl, pc, ln), "info/name"},
		{"zero_piece_length", info(name, bencode.E("piece length", bencode.Int(0)), pc, ln), "info/piece length"},
		{"odd_pieces", info(name, pl, bencode.E("pieces", bencode.Bytes([]byte("abc"))), ln), "info/pieces"},
		{"no_length", info(name, pl, pc), "no length or files"},
		{"both", info(ln, bencode.E("files", bencode.List()), name, pl, pc), "both"},
		{"empty_files", info(bencode.E("files", bencode.List()), name, pl, pc), "info/files"},
		{"empty_path", info(bencode.E("files", bencode.List(bencode.Dict(
			bencode.E("length", bencode.Int(1)), bencode.E("path", bencode.List())))), name, pl, pc), "info/files[0]/path"},
		{"bad_announce", bencode.Dict(bencode.E("announce", bencode.Int(1))), "announce"},
		{"bad_tier", bencode.Dict(bencode.E("announce-list", bencode.List(bencode.Text("x")))), "announce-list[0]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromValue(tc.doc)
			if !errors.Is(err, ErrInvalidMetaInfo) {
				t.Fatalf("want ErrInvalidMetaInfo, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error %q does not name %q", err, tc.field)
			}
		})
	}
}

func TestParseMalformedInput(t *testing.T) {
	if _, err := Parse([]byte("d4:info")); !errors.Is(err, bencode.ErrMalformed) {
		t.Fatalf("want ErrMalformed, got %v", err)
	}
}

func TestFromValueWithoutAdvisor(t *testing.T) {
	v, ok := bencode.Decode(bencode.Encode(singleFile()))
	if !ok {
		t.Fatalf("decode failed")
	}
	m, err := FromValue(v)
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if m.Info.Name != "big-buck-bunny.mp4" {
		t.Fatalf("name = %q", m.Info.Name)
	}
}

func TestInfoHashUsesRawBytes(t *testing.T) {
	// keys out of order: name sorts before piece length
	info := "d6:lengthi1e12:piece lengthi16e4:name1:a6:pieces20:" + strings.Repeat("\x00", 20) + "e"
	data := []byte("d8:announce1:x4:info" + info + "e")

	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if want := sha1.Sum([]byte(info)); [20]byte(m.InfoHash) != want {
		t.Fatalf("info hash = %s, want sha1 of the raw info bytes", m.InfoHash)
	}
	if string(m.InfoBytes) != info {
		t.Fatalf("InfoBytes = %q", m.InfoBytes)
	}
	infoVal, _ := m.Raw.Get("info")
	if m.InfoHash == bencode.Sum(infoVal) {
		t.Fatalf("non-canonical info must not hash like its canonical form")
	}

	fv, err := FromValue(m.Raw)
	if err != nil {
		t.Fatalf("FromValue: %v", err)
	}
	if fv.InfoHash != bencode.Sum(infoVal) || fv.InfoBytes != nil {
		t.Fatalf("FromValue falls back to the canonical hash")
	}
}

func TestInfoHashLastDuplicateWins(t *testing.T) {
	first := "d6:lengthi1e4:name1:a12:piece lengthi16e6:pieces0:e"
	second := "d6:lengthi2e4:name1:b12:piece lengthi16e6:pieces0:e"
	m, err := Parse([]byte("d4:info" + first + "4:info" + second + "e"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Info.Name != "b" || [20]byte(m.InfoHash) != sha1.Sum([]byte(second)) {
		t.Fatalf("name=%s hash=%s", m.Info.Name, m.InfoHash)
	}
}
