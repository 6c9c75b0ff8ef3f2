// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/simplifiedchinese"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func loadFixture(t *testing.T, name string) *Document {
	t.Helper()
	doc, err := Load(readFixture(t, name))
	require.NoError(t, err)
	return doc
}

func loadString(t *testing.T, s string) *Document {
	t.Helper()
	doc, err := Load([]byte(s))
	require.NoError(t, err)
	return doc
}

func TestIDFromPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"/subject/1007241/", "1007241", true},
		{"/subject/1007241", "1007241", true},
		{"/subject/1007241/?x=1", "1007241", true},
		{"/subject/1007241?source=search", "1007241", true},
		{"https://book.douban.com/subject/2567698/#comments", "2567698", true},
		{"/author/4502431/", "", false},
		{"/subject/", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := IDFromPath(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFirst(t *testing.T) {
	doc := loadString(t, "<html><body><p>x</p></body></html>")
	var calls []string
	strategy := func(name, value string) Strategy[string] {
		return func(*Document) (string, bool) {
			calls = append(calls, name)
			return value, value != ""
		}
	}

	got, ok := First(doc, strategy("a", ""), strategy("b", "found"), strategy("c", "later"))
	assert.True(t, ok)
	assert.Equal(t, "found", got)
	assert.Equal(t, []string{"a", "b"}, calls, "strategies after the first hit are skipped")

	_, ok = First[string](doc)
	assert.False(t, ok)
}

func TestTrailingTextSkipsSeparator(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"separator node before element", `<div id="info"><span class="pl">出版社</span> | <span>  重庆出版社 </span><br></div>`},
		{"separator in value text", `<div id="info"><span class="pl">出版社</span> | 重庆出版社<br></div>`},
		{"colon and separator in value text", `<div id="info"><span class="pl">出版社</span>: | 重庆出版社<br></div>`},
		{"full-width colon", `<div id="info"><span class="pl">出版社</span>：重庆出版社<br></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := LabelValue(loadString(t, tt.html), LabelPublisher)
			assert.True(t, ok)
			assert.Equal(t, "重庆出版社", v)
		})
	}
}

func TestTextIsDecodedOnce(t *testing.T) {
	doc := loadString(t, `<html><body>
<h1><span property="v:itemreviewed">Using &amp;lt;canvas&amp;gt; &amp;amp; SVG</span></h1>
<div id="info"><span class="pl">出版社</span>: AT&amp;amp;T Press<br></div>
</body></html>`)

	title, ok := Title(doc)
	assert.True(t, ok)
	assert.Equal(t, "Using &lt;canvas&gt; &amp; SVG", title)

	publisher, ok := LabelValue(doc, LabelPublisher)
	assert.True(t, ok)
	assert.Equal(t, "AT&amp;T Press", publisher)
}

func TestTrailingTextStopsAtBreak(t *testing.T) {
	doc := loadString(t, `<div id="info"><span class="pl">页数:</span><br><span class="pl">ISBN:</span> 9787536692930<br></div>`)
	_, ok := LabelValue(doc, LabelPages)
	assert.False(t, ok)

	v, ok := LabelValue(doc, LabelISBN)
	assert.True(t, ok)
	assert.Equal(t, "9787536692930", v)
}

func TestAuthors(t *testing.T) {
	long := strings.Repeat("长", 101)
	tests := []struct {
		name string
		html string
		want []string
	}{
		{
			name: "author and search links",
			html: `<div id="info"><span class="pl">作者</span>: <a href="/author/1">刘慈欣</a> / <a href="/search?text=x">宝树</a><br></div>`,
			want: []string{"刘慈欣", "宝树"},
		},
		{
			name: "unrelated link excluded",
			html: `<div id="info"><span class="pl">作者</span>: <a href="/doulist/5/">豆列</a> <a href="/author/2">韩松</a><br></div>`,
			want: []string{"韩松"},
		},
		{
			name: "overlong name excluded",
			html: `<div id="info"><span class="pl">作者</span>: <a href="/author/3">` + long + `</a><br></div>`,
			want: nil,
		},
		{
			name: "plain text fallback",
			html: `<div id="info"><span class="pl">作者:</span> 刘慈欣 / 宝树<br></div>`,
			want: []string{"刘慈欣", "宝树"},
		},
		{
			name: "links after break belong to the next field",
			html: `<div id="info"><span class="pl">作者</span>:<br><a href="/author/9">别人</a></div>`,
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Authors(loadString(t, tt.html)))
		})
	}
}

func TestDetail(t *testing.T) {
	rec := Detail(loadFixture(t, "detail.html"), "requested")

	assert.Equal(t, "2567698", rec.ID)
	assert.Equal(t, "三体: 地球往事", rec.Title)
	assert.Equal(t, "https://img9.doubanio.com/view/subject/s/public/s2768378.jpg", rec.Image)
	assert.Equal(t, []string{"刘慈欣", "Ken Liu"}, rec.Authors)
	assert.Equal(t, "重庆出版社", rec.Publisher)
	assert.Equal(t, "2008-1", rec.PubDate)
	require.NotNil(t, rec.Pages)
	assert.Equal(t, 302, *rec.Pages)
	assert.Equal(t, "9787536692930", rec.ISBN)
	assert.Equal(t, []string{"科幻", "刘慈欣", "science_fiction", "科幻"}, rec.Tags)

	lines := strings.Split(rec.Summary, "\n")
	require.Len(t, lines, 2, "the full description is the last intro block")
	assert.True(t, strings.HasPrefix(lines[0], "文化大革命如火如荼进行的同时，军方"))
}

func TestDetailMissingFields(t *testing.T) {
	rec := Detail(loadFixture(t, "detail_minimal.html"), "1234567")

	assert.Equal(t, "1234567", rec.ID)
	assert.Equal(t, "无名之书", rec.Title)
	assert.Empty(t, rec.Authors)
	assert.Empty(t, rec.Publisher)
	assert.Nil(t, rec.Pages)
	assert.Empty(t, rec.Summary, "summaries under the minimum length are noise")
	assert.Empty(t, rec.Image)
}

func TestTitleFallsBackToOpenGraph(t *testing.T) {
	doc := loadString(t, `<html><head><meta property="og:title" content="活着 &amp; 死去"></head><body></body></html>`)
	title, ok := Title(doc)
	assert.True(t, ok)
	assert.Equal(t, "活着 & 死去", title)
}

func TestLoadConvertsDeclaredCharset(t *testing.T) {
	page := `<html><head><meta charset="gbk"></head><body><h1><span>三体</span></h1></body></html>`
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(page)
	require.NoError(t, err)

	doc, err := Load([]byte(encoded))
	require.NoError(t, err)
	title, ok := Title(doc)
	assert.True(t, ok)
	assert.Equal(t, "三体", title)
}

func TestParseListingCoverAnchors(t *testing.T) {
	l, err := ParseListing(readFixture(t, "search_nbg.html"))
	require.NoError(t, err)

	require.Len(t, l.Candidates, 2)
	assert.Equal(t, Candidate{
		ID:      "1007241",
		Title:   "三体",
		Image:   "https://img3.doubanio.com/view/subject/s/public/s1007241.jpg",
		PubDate: "2008-1",
	}, l.Candidates[0])
	assert.Equal(t, "4913064", l.Candidates[1].ID)
	assert.Equal(t, "活着", l.Candidates[1].Title)
	assert.Equal(t, 2, l.Dropped)
	assert.False(t, l.TotalKnown)
}

func TestParseListingEmbeddedData(t *testing.T) {
	l, err := ParseListing(readFixture(t, "search_data.html"))
	require.NoError(t, err)

	require.Len(t, l.Candidates, 2)
	assert.Equal(t, "2567698", l.Candidates[0].ID)
	assert.Equal(t, "2008-1", l.Candidates[0].PubDate)
	assert.Equal(t, "https://img9.doubanio.com/view/subject/m/public/s2768378.jpg", l.Candidates[0].Image)
	assert.Equal(t, "三体Ⅲ & 死神永生", l.Candidates[1].Title)
	assert.Equal(t, "2010-11", l.Candidates[1].PubDate)
	assert.True(t, l.TotalKnown)
	assert.Equal(t, 157, l.Total)
	assert.Equal(t, 1, l.Dropped)
}

func TestParseListingJSON(t *testing.T) {
	l, err := ParseListing(readFixture(t, "search.json"))
	require.NoError(t, err)

	require.Len(t, l.Candidates, 2)
	assert.Equal(t, "1007241", l.Candidates[0].ID)
	assert.Equal(t, "4913064", l.Candidates[1].ID, "id falls back to the item URL")
	assert.Equal(t, "2012-8-1", l.Candidates[1].PubDate)
	assert.Equal(t, 42, l.Total)
}

func TestParseListingDetailPage(t *testing.T) {
	l, err := ParseListing(readFixture(t, "detail.html"))
	require.NoError(t, err)

	require.Len(t, l.Candidates, 1)
	assert.Equal(t, "2567698", l.Candidates[0].ID)
	assert.Equal(t, "三体: 地球往事", l.Candidates[0].Title)
	assert.Equal(t, 1, l.Total)
}

func TestParseListingEmpty(t *testing.T) {
	l, err := ParseListing([]byte(`<html><body><p>没有找到</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, l.Candidates)
	assert.False(t, l.TotalKnown)
}

func TestParseListingErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json body", `{"items": [`},
		{"source error", `{"error_info": "搜索访问太频繁", "items": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListing([]byte(tt.body))
			require.Error(t, err)
			var pe *ParseError
			assert.True(t, errors.As(err, &pe))
			assert.True(t, IsParseError(err))
		})
	}

	t.Run("unreadable embedded data", func(t *testing.T) {
		_, err := ParseListing(readFixture(t, "search_broken_data.html"))
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, dataMarker, pe.Source)
	})
}
