package sitemap_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catchup-sitemap/internal/sitemap"
)

type obj struct {
	id      int
	updated time.Time
}

func objects(n int) []any {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]any, n)
	for i := range out {
		out[i] = obj{id: i + 1, updated: base.Add(time.Duration(i) * time.Hour)}
	}
	return out
}

func objSection(items []any, size int) *sitemap.Plain {
	return &sitemap.Plain{
		Source:   func(context.Context) ([]any, error) { return items, nil },
		PageSize: size,
		Attrs: sitemap.Attributes{
			Location:     sitemap.From(func(o obj) string { return fmt.Sprintf("/e/%d", o.id) }),
			LastModified: sitemap.From(func(o obj) time.Time { return o.updated }),
		},
	}
}

func TestPageCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, size, want int
	}{
		{n: 0, size: 2, want: 1},
		{n: 1, size: 2, want: 1},
		{n: 2, size: 2, want: 1},
		{n: 3, size: 2, want: 2},
		{n: 5, size: 1, want: 5},
		{n: 101, size: 50, want: 3},
		{n: 10, size: 0, want: 1},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d,size=%d", tt.n, tt.size), func(t *testing.T) {
			got, err := sitemap.PageCount(context.Background(), objSection(objects(tt.n), tt.size))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaginate_Example(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := objSection(objects(3), 2)

	count, err := sitemap.PageCount(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	p1, err := sitemap.Paginate(ctx, s, 1)
	require.NoError(t, err)
	require.Len(t, p1.Entries, 2)
	assert.Equal(t, "/e/1", p1.Entries[0].Location)
	assert.Equal(t, "/e/2", p1.Entries[1].Location)

	p2, err := sitemap.Paginate(ctx, s, 2)
	require.NoError(t, err)
	require.Len(t, p2.Entries, 1)
	assert.Equal(t, "/e/3", p2.Entries[0].Location)
}

func TestPaginate_ConcatenationReproducesItems(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, size := range []int{1, 3, 7, 10, 11} {
		items := objects(10)
		s := objSection(items, size)

		count, err := sitemap.PageCount(ctx, s)
		require.NoError(t, err)

		var got []string
		for n := 1; n <= count; n++ {
			p, err := sitemap.Paginate(ctx, s, n)
			require.NoError(t, err)
			assert.LessOrEqual(t, len(p.Entries), size)
			for _, e := range p.Entries {
				got = append(got, e.Location)
			}
		}

		want := make([]string, 0, len(items))
		for _, it := range items {
			want = append(want, fmt.Sprintf("/e/%d", it.(obj).id))
		}
		assert.Equal(t, want, got, "size=%d", size)
	}
}

func TestPaginate_OutOfRange(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := objSection(objects(3), 2)

	_, err := sitemap.Paginate(ctx, s, 0)
	assert.ErrorIs(t, err, sitemap.ErrPageNotFound)

	_, err = sitemap.Paginate(ctx, s, 3)
	assert.ErrorIs(t, err, sitemap.ErrPageNotFound)

	_, err = sitemap.Paginate(ctx, s, -1)
	assert.ErrorIs(t, err, sitemap.ErrPageNotFound)
}

func TestPaginate_EmptySectionHasOneEmptyPage(t *testing.T) {
	t.Parallel()

	p, err := sitemap.Paginate(context.Background(), objSection(nil, 2), 1)
	require.NoError(t, err)
	assert.Empty(t, p.Entries)
	assert.Nil(t, p.LastModified())
}

func TestPaginate_SourceError(t *testing.T) {
	t.Parallel()

	dbErr := errors.New("connection refused")
	s := &sitemap.Plain{Source: func(context.Context) ([]any, error) { return nil, dbErr }}

	_, err := sitemap.Paginate(context.Background(), s, 1)
	assert.ErrorIs(t, err, dbErr)
}

func TestPaginate_MissingLocationAbortsPage(t *testing.T) {
	t.Parallel()

	s := &sitemap.Plain{
		Source: func(context.Context) ([]any, error) { return []any{noURL{id: 1}}, nil },
	}
	_, err := sitemap.Paginate(context.Background(), s, 1)
	assert.ErrorIs(t, err, sitemap.ErrMissingLocation)
}

func TestSectionLastModified(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	got, err := sitemap.SectionLastModified(ctx, objSection(objects(3), 2))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC)))

	got, err = sitemap.SectionLastModified(ctx, objSection(nil, 2))
	require.NoError(t, err)
	assert.Nil(t, got, "empty section has no lastmod")

	partial := objSection(objects(2), 2)
	partial.Attrs.LastModified = sitemap.Derived(func(o any) (time.Time, error) {
		if o.(obj).id == 2 {
			return time.Time{}, sitemap.ErrOmit
		}
		return o.(obj).updated, nil
	})
	got, err = sitemap.SectionLastModified(ctx, partial)
	require.NoError(t, err)
	assert.Nil(t, got, "any object without lastmod makes the section lastmod absent")
}

func TestValidateSection(t *testing.T) {
	t.Parallel()

	assert.NoError(t, sitemap.ValidateSection(objSection(nil, 0)))
	assert.NoError(t, sitemap.ValidateSection(objSection(nil, sitemap.MaxLimit)))
	assert.ErrorIs(t, sitemap.ValidateSection(objSection(nil, sitemap.MaxLimit+1)), sitemap.ErrInvalidLimit)
	assert.ErrorIs(t, sitemap.ValidateSection(objSection(nil, -1)), sitemap.ErrInvalidLimit)
}

func TestSlice(t *testing.T) {
	t.Parallel()

	got := sitemap.Slice([]string{"a", "b"})
	assert.Equal(t, []any{"a", "b"}, got)
}
