package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
	"github.com/d60-Lab/vidtube/internal/testutil"
)

func TestVideoDetail(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	u3 := testutil.User(t, e.db, "u3")
	v1 := testutil.Video(t, e.db, u1, "v1", true)
	testutil.Like(t, e.db, u2, model.VideoTarget(v1.ID))
	testutil.Subscribe(t, e.db, u2, u1)
	testutil.Subscribe(t, e.db, u3, u1)

	rec := &recordingRecorder{}
	c := NewViewComposer(e.stores, ComposerOptions{Recorder: rec})

	d, err := c.VideoDetail(ctx, principal(u2), v1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.LikesCount)
	assert.True(t, d.IsLiked)
	assert.Equal(t, "u1", d.Owner.Username)
	assert.Equal(t, int64(2), d.Owner.SubscribersCount)
	assert.True(t, d.Owner.IsSubscribed)
	assert.Equal(t, []string{v1.ID + "/" + u2.ID}, rec.views)

	d, err = c.VideoDetail(ctx, principal(u1), v1.ID)
	require.NoError(t, err)
	assert.False(t, d.IsLiked)
	assert.False(t, d.Owner.IsSubscribed)
}

func TestVideoDetail_FieldSet(t *testing.T) {
	e := newEnv(t)
	u1 := testutil.User(t, e.db, "u1")
	v1 := testutil.Video(t, e.db, u1, "v1", true)

	d, err := NewViewComposer(e.stores, ComposerOptions{}).VideoDetail(context.Background(), principal(u1), v1.ID)
	require.NoError(t, err)
	buf, err := json.Marshal(d)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf, &fields))
	assert.ElementsMatch(t, []string{
		"id", "videoFile", "thumbnail", "title", "description", "views",
		"duration", "createdAt", "likesCount", "isLiked", "owner",
	}, keys(fields))

	var owner map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(fields["owner"], &owner))
	assert.ElementsMatch(t, []string{"id", "username", "fullName", "avatar", "subscribersCount", "isSubscribed"}, keys(owner))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestVideoDetail_Errors(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	draft := testutil.Video(t, e.db, u1, "draft", false)
	c := NewViewComposer(e.stores, ComposerOptions{})

	_, err := c.VideoDetail(ctx, principal(u1), "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = c.VideoDetail(ctx, principal(u1), testutil.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.VideoDetail(ctx, model.Anonymous, draft.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = c.VideoDetail(ctx, principal(u2), draft.ID)
	assert.ErrorIs(t, err, ErrNotFound, "drafts are visible to their owner only")
	_, err = c.VideoDetail(ctx, principal(u1), draft.ID)
	assert.NoError(t, err)
}

func TestVideoDetail_RecordsViewAsync(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	v1 := testutil.Video(t, e.db, u1, "v1", true)

	rec := NewViewRecorder(e.stores.Videos, e.stores.Users, 16)
	stop := rec.Start(2)
	c := NewViewComposer(e.stores, ComposerOptions{Recorder: rec})

	for i := 0; i < 3; i++ {
		_, err := c.VideoDetail(ctx, principal(u2), v1.ID)
		require.NoError(t, err)
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, stop(stopCtx))

	got, err := e.stores.Videos.GetByID(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Views)

	hist, err := c.WatchHistory(ctx, principal(u2))
	require.NoError(t, err)
	require.Len(t, hist, 1, "watch history has set semantics")
	assert.Equal(t, v1.ID, hist[0].ID)
	assert.Equal(t, "u1", hist[0].Owner.Username)
}

func TestCommentFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	v := testutil.Video(t, e.db, u1, "v", true)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, testutil.Comment(t, e.db, u2, v, fmt.Sprintf("c%d", i)).ID)
	}
	testutil.Like(t, e.db, u1, model.CommentTarget(ids[4]))

	c := NewViewComposer(e.stores, ComposerOptions{})
	page, err := c.CommentFeed(ctx, principal(u1), v.ID, repository.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[4], page.Items[0].ID)
	assert.True(t, page.Items[0].IsLiked)
	assert.Equal(t, int64(1), page.Items[0].LikesCount)
	assert.Equal(t, "u2", page.Items[0].Owner.Username)

	last, err := c.CommentFeed(ctx, principal(u1), v.ID, repository.PageRequest{Page: 3, Limit: 2})
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, ids[0], last.Items[0].ID)
	assert.False(t, last.HasNext)

	_, err = c.CommentFeed(ctx, principal(u1), testutil.ID(), repository.PageRequest{Page: 1, Limit: 2})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTweetFeed(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	first := testutil.Tweet(t, e.db, u1, "first")
	second := testutil.Tweet(t, e.db, u1, "second")
	testutil.Like(t, e.db, u2, model.TweetTarget(first.ID))

	items, err := NewViewComposer(e.stores, ComposerOptions{}).TweetFeed(ctx, principal(u2), u1.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)
	assert.Equal(t, first.ID, items[1].ID)
	assert.True(t, items[1].IsLiked)
	assert.Equal(t, "u1", items[1].Owner.Username)

	_, err = NewViewComposer(e.stores, ComposerOptions{}).TweetFeed(ctx, principal(u2), testutil.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChannelStats(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	fans := []*model.User{testutil.User(t, e.db, "f1"), testutil.User(t, e.db, "f2"), testutil.User(t, e.db, "f3")}
	c := NewViewComposer(e.stores, ComposerOptions{})

	empty, err := c.ChannelStats(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{}, *empty)

	v1 := testutil.Video(t, e.db, u1, "v1", true)
	v2 := testutil.Video(t, e.db, u1, "v2", true)
	require.NoError(t, e.db.Model(v1).Update("views", 10).Error)
	require.NoError(t, e.db.Model(v2).Update("views", 5).Error)
	for _, f := range fans {
		testutil.Like(t, e.db, f, model.VideoTarget(v1.ID))
	}
	testutil.Subscribe(t, e.db, fans[0], u1)

	stats, err := c.ChannelStats(ctx, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, ChannelStats{TotalSubscribers: 1, TotalLikes: 3, TotalViews: 15, TotalVideos: 2}, *stats)

	_, err = c.ChannelStats(ctx, testutil.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.ChannelStats(ctx, "x")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestChannelVideosAndSubscribers(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	pub := testutil.Video(t, e.db, u1, "pub", true)
	draft := testutil.Video(t, e.db, u1, "draft", false)
	testutil.Like(t, e.db, u2, model.VideoTarget(pub.ID))
	testutil.Subscribe(t, e.db, u2, u1)
	c := NewViewComposer(e.stores, ComposerOptions{})

	vids, err := c.ChannelVideos(ctx, principal(u1))
	require.NoError(t, err)
	require.Len(t, vids, 2)
	assert.Equal(t, draft.ID, vids[0].ID)
	assert.False(t, vids[0].IsPublished)
	assert.Equal(t, int64(1), vids[1].LikesCount)

	subs, err := c.ChannelSubscribers(ctx, principal(u1))
	require.NoError(t, err)
	assert.Equal(t, 1, subs.Count)
	assert.Equal(t, "u2@example.com", subs.Subscribers[0].Email)
}

func TestSubscriptionFeed_KeepsChannelsWithoutVideos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	viewer := testutil.User(t, e.db, "viewer")
	busy := testutil.User(t, e.db, "busy")
	quiet := testutil.User(t, e.db, "quiet")
	old := testutil.Video(t, e.db, busy, "old", true)
	testutil.Video(t, e.db, quiet, "draft", false)
	recent := testutil.Video(t, e.db, busy, "recent", true)
	testutil.Subscribe(t, e.db, viewer, busy)
	testutil.Subscribe(t, e.db, viewer, quiet)

	feed, err := NewViewComposer(e.stores, ComposerOptions{}).SubscriptionFeed(ctx, principal(viewer))
	require.NoError(t, err)
	require.Len(t, feed.Channels, 2)
	names := []string{feed.Channels[0].Username, feed.Channels[1].Username}
	assert.ElementsMatch(t, []string{"busy", "quiet"}, names)
	require.Len(t, feed.Videos, 2)
	assert.Equal(t, recent.ID, feed.Videos[0].ID)
	assert.Equal(t, old.ID, feed.Videos[1].ID)
	assert.Equal(t, "busy", feed.Videos[0].Owner.Username)
}

func TestPlaylistDetail_FiltersUnpublished(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	v1 := testutil.Video(t, e.db, u1, "v1", true)
	v2 := testutil.Video(t, e.db, u1, "v2", false)
	p := testutil.Playlist(t, e.db, u1, "p")
	testutil.AddToPlaylist(t, e.db, p, v1)
	testutil.AddToPlaylist(t, e.db, p, v2)
	c := NewViewComposer(e.stores, ComposerOptions{})

	d, err := c.PlaylistDetail(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, d.TotalVideos)
	require.Len(t, d.Videos, 1)
	assert.Equal(t, v1.ID, d.Videos[0].ID)
	assert.Equal(t, "u1", d.Owner.Username)

	onlyDrafts := testutil.Playlist(t, e.db, u1, "drafts")
	testutil.AddToPlaylist(t, e.db, onlyDrafts, v2)
	d, err = c.PlaylistDetail(ctx, onlyDrafts.ID)
	require.NoError(t, err, "playlist is never suppressed")
	assert.Equal(t, 0, d.TotalVideos)
	assert.NotNil(t, d.Videos)

	lists, err := c.UserPlaylists(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, int64(1), lists[0].TotalVideos)
	assert.Equal(t, int64(2), lists[1].TotalVideos, "owner listing counts unpublished videos")

	_, err = c.PlaylistDetail(ctx, testutil.ID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoListingAndLikedVideos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u1 := testutil.User(t, e.db, "u1")
	u2 := testutil.User(t, e.db, "u2")
	a := testutil.Video(t, e.db, u1, "alpha", true)
	b := testutil.Video(t, e.db, u2, "beta", true)
	testutil.Video(t, e.db, u1, "gamma", false)
	require.NoError(t, e.db.Model(a).Update("views", 7).Error)
	c := NewViewComposer(e.stores, ComposerOptions{})

	page, err := c.VideoListing(ctx, VideoListQuery{SortBy: "views", SortType: "desc"}, repository.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, a.ID, page.Items[0].ID)
	assert.Equal(t, "u1", page.Items[0].Owner.Username)

	page, err = c.VideoListing(ctx, VideoListQuery{UserID: u2.ID}, repository.NewPageRequest(1, 10))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	_, err = c.VideoListing(ctx, VideoListQuery{UserID: "bad"}, repository.NewPageRequest(1, 10))
	assert.ErrorIs(t, err, ErrInvalidID)

	testutil.Like(t, e.db, u2, model.VideoTarget(a.ID))
	liked, err := c.LikedVideos(ctx, principal(u2))
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, a.ID, liked[0].ID)
}

func TestVideoListing_PaginationCoversEveryItemOnce(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 15
	properties := gopter.NewProperties(parameters)
	ctx := context.Background()

	properties.Property("pages partition the listing", prop.ForAll(
		func(n, size int) bool {
			e := newEnv(t)
			owner := testutil.User(t, e.db, "owner")
			want := map[string]bool{}
			for i := 0; i < n; i++ {
				want[testutil.Video(t, e.db, owner, fmt.Sprintf("v%d", i), true).ID] = true
			}
			c := NewViewComposer(e.stores, ComposerOptions{})

			seen := map[string]bool{}
			first, err := c.VideoListing(ctx, VideoListQuery{SortBy: "title", SortType: "asc"}, repository.NewPageRequest(1, size))
			if err != nil || first.TotalItems != int64(n) {
				return false
			}
			for p := 1; p <= first.TotalPages; p++ {
				page, err := c.VideoListing(ctx, VideoListQuery{SortBy: "title", SortType: "asc"}, repository.NewPageRequest(p, size))
				if err != nil {
					return false
				}
				for _, it := range page.Items {
					if seen[it.ID] {
						return false
					}
					seen[it.ID] = true
				}
			}
			return len(seen) == len(want)
		},
		gen.IntRange(0, 12),
		gen.IntRange(1, 5),
	))

	properties.TestingRun(t)
}
