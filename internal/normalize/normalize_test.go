// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/bookmeta/pkg/types"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"2008-1", 2008, true},
		{"2008", 2008, true},
		{"2008年1月", 2008, true},
		{" 1999-12-01 ", 1999, true},
		{"Jan 2006", 2006, true},
		{"March 3, 1987", 1987, true},
		{"08", 0, false},
		{"", 0, false},
		{"200", 0, false},
		{"20a8-1", 0, false},
		{"unknown", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseYear(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPages(t *testing.T) {
	n, ok := Pages(" 406页")
	assert.True(t, ok)
	assert.Equal(t, 406, n)

	n, ok = Pages("302 pages, illustrated")
	assert.True(t, ok)
	assert.Equal(t, 302, n)

	_, ok = Pages("未知")
	assert.False(t, ok)
}

func TestISBN(t *testing.T) {
	got, ok := ISBN(" 978-7-5366-9293-0 ")
	assert.True(t, ok)
	assert.Equal(t, "9787536692930", got)

	got, ok = ISBN("0-306-40615-x")
	assert.True(t, ok)
	assert.Equal(t, "030640615X", got)

	_, ok = ISBN("12345")
	assert.False(t, ok)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", CleanText("  Tom &\n  Jerry "))
	assert.Equal(t, "AT&amp;T Press", CleanText("AT&amp;T Press"))
	// Decomposed e + combining acute becomes the precomposed form.
	assert.Equal(t, "caf\u00e9", CleanText("cafe\u0301"))
}

func TestDecodeText(t *testing.T) {
	assert.Equal(t, "Tom & Jerry", DecodeText("  Tom &amp;\n  Jerry "))
	assert.Equal(t, "“三体”", DecodeText("&ldquo;三体&rdquo;"))
	assert.Equal(t, "&lt;canvas&gt;", DecodeText("&amp;lt;canvas&amp;gt;"))
}

func TestCleanMultiline(t *testing.T) {
	assert.Equal(t, "first line\nsecond", CleanMultiline("  first   line \n\n  second\r\n"))
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "刘慈欣 / 重庆出版社", StripTags("<em>刘慈欣</em> / 重庆出版社"))
	assert.Equal(t, "a & b", StripTags("a &amp; <b>b</b>"))
	assert.Equal(t, "AT&amp;T", StripTags("AT&amp;amp;T"))
}

func TestSummary(t *testing.T) {
	_, ok := Summary("太短了", 10)
	assert.False(t, ok)

	s, ok := Summary("文化大革命如火如荼进行的同时，军方探寻外星文明的绝秘计划取得了突破性进展。", 10)
	assert.True(t, ok)
	assert.NotEmpty(t, s)
}

func TestImageSize(t *testing.T) {
	in := "https://img9.doubanio.com/view/subject/s/public/s2768378.jpg"
	assert.Equal(t, "https://img9.doubanio.com/view/subject/l/public/s2768378.jpg", ImageSize(in, "l"))
	assert.Equal(t, in, ImageSize(in, ""))
	assert.Equal(t, in, ImageSize(in, "xl"))
	assert.Equal(t, "https://example.com/a.jpg", ImageSize("https://example.com/a.jpg", "m"))
}

func TestGenres(t *testing.T) {
	got := Genres([]string{"science fiction", "Science Fiction", "科幻", "hard_sf", "科幻", "  "})
	assert.Equal(t, []string{"Science Fiction", "科幻", "Hard Sf"}, got)
	assert.Nil(t, Genres(nil))
}

func TestCreators(t *testing.T) {
	got := Creators([]string{"刘慈欣", " ", "Ken Liu"}, "重庆出版社")
	assert.Equal(t, []types.Creator{
		{Name: "刘慈欣", Role: types.RoleAuthor},
		{Name: "Ken Liu", Role: types.RoleAuthor},
		{Name: "重庆出版社", Role: types.RolePublisher},
	}, got)

	assert.Equal(t, []types.Creator{{Name: "Ken Liu", Role: types.RoleAuthor}},
		Creators([]string{"Ken Liu"}, ""))
}
