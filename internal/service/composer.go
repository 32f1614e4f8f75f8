package service

import (
	"context"
	"strings"

	"github.com/d60-Lab/vidtube/internal/model"
	"github.com/d60-Lab/vidtube/internal/repository"
)

// ViewComposer 组装相对当前查看者的只读视图，不修改实体（视频详情的计数副作用除外）
type ViewComposer interface {
	VideoDetail(ctx context.Context, viewer model.Principal, videoID string) (*VideoDetail, error)
	CommentFeed(ctx context.Context, viewer model.Principal, videoID string, page repository.PageRequest) (*repository.PageResult[CommentItem], error)
	TweetFeed(ctx context.Context, viewer model.Principal, userID string) ([]TweetItem, error)
	ChannelStats(ctx context.Context, channelID string) (*ChannelStats, error)
	ChannelVideos(ctx context.Context, viewer model.Principal) ([]ChannelVideo, error)
	SubscriptionFeed(ctx context.Context, viewer model.Principal) (*SubscriptionFeed, error)
	ChannelSubscribers(ctx context.Context, viewer model.Principal) (*ChannelSubscribers, error)
	PlaylistDetail(ctx context.Context, playlistID string) (*PlaylistDetail, error)
	UserPlaylists(ctx context.Context, userID string) ([]PlaylistSummary, error)
	VideoListing(ctx context.Context, q VideoListQuery, page repository.PageRequest) (*repository.PageResult[VideoItem], error)
	LikedVideos(ctx context.Context, viewer model.Principal) ([]VideoItem, error)
	WatchHistory(ctx context.Context, viewer model.Principal) ([]VideoItem, error)
}

type ComposerOptions struct {
	Owners   OwnerLoader
	Recorder Recorder
	// FeedVideoLimit 订阅动态最多返回的视频数，<=0 不限制
	FeedVideoLimit int
}

type viewComposer struct {
	stores Stores
	owners OwnerLoader
	rec    Recorder
	limit  int
}

func NewViewComposer(stores Stores, opts ComposerOptions) ViewComposer {
	owners := opts.Owners
	if owners == nil {
		owners = NewOwnerLoader(stores.Users)
	}
	return &viewComposer{stores: stores, owners: owners, rec: opts.Recorder, limit: opts.FeedVideoLimit}
}

func (c *viewComposer) loadOwners(ctx context.Context, ids []string) (map[string]*model.User, error) {
	owners, err := c.owners.Load(ctx, ids)
	if err != nil {
		return nil, internal("load owners", err)
	}
	return owners, nil
}

func (c *viewComposer) VideoDetail(ctx context.Context, viewer model.Principal, videoID string) (*VideoDetail, error) {
	id, err := ParseID("video id", videoID)
	if err != nil {
		return nil, err
	}
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	row, err := c.stores.Videos.Detail(ctx, id, viewer.ID)
	if err != nil {
		return nil, storeErr("video", "load video", err)
	}
	if !row.IsPublished && row.OwnerID != viewer.ID {
		return nil, notFound("video")
	}

	owners, err := c.loadOwners(ctx, []string{row.OwnerID})
	if err != nil {
		return nil, err
	}
	subs, err := c.stores.Subscriptions.CountByChannel(ctx, row.OwnerID)
	if err != nil {
		return nil, internal("count subscribers", err)
	}
	subscribed, err := c.stores.Subscriptions.Exists(ctx, viewer.ID, row.OwnerID)
	if err != nil {
		return nil, internal("check subscription", err)
	}

	if c.rec != nil {
		c.rec.RecordView(id, viewer.ID)
	}

	return &VideoDetail{
		ID:          row.ID,
		VideoFile:   row.VideoFile,
		Thumbnail:   row.Thumbnail,
		Title:       row.Title,
		Description: row.Description,
		Views:       row.Views,
		Duration:    row.Duration,
		CreatedAt:   row.CreatedAt,
		LikesCount:  row.LikesCount,
		IsLiked:     row.IsLiked,
		Owner: ChannelOwner{
			OwnerSummary:     summarize(row.OwnerID, owners[row.OwnerID]),
			SubscribersCount: subs,
			IsSubscribed:     subscribed,
		},
	}, nil
}

func (c *viewComposer) CommentFeed(ctx context.Context, viewer model.Principal, videoID string, page repository.PageRequest) (*repository.PageResult[CommentItem], error) {
	id, err := ParseID("video id", videoID)
	if err != nil {
		return nil, err
	}
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	ok, err := c.stores.Videos.Exists(ctx, id)
	if err != nil {
		return nil, internal("check video", err)
	}
	if !ok {
		return nil, notFound("video")
	}

	rows, err := repository.Paginate[repository.CommentRow](c.stores.Comments.FeedQuery(ctx, id, viewer.ID), page)
	if err != nil {
		return nil, internal("load comments", err)
	}
	ownerIDs := make([]string, len(rows.Items))
	for i, r := range rows.Items {
		ownerIDs[i] = r.OwnerID
	}
	owners, err := c.loadOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	return repository.Map(rows, func(r repository.CommentRow) CommentItem {
		return CommentItem{
			ID:         r.ID,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
			LikesCount: r.LikesCount,
			IsLiked:    r.IsLiked,
			Owner:      summarize(r.OwnerID, owners[r.OwnerID]),
		}
	}), nil
}

func (c *viewComposer) TweetFeed(ctx context.Context, viewer model.Principal, userID string) ([]TweetItem, error) {
	id, err := ParseID("user id", userID)
	if err != nil {
		return nil, err
	}
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	owner, err := c.stores.Users.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("user", "load user", err)
	}
	rows, err := c.stores.Tweets.ListByOwner(ctx, id, viewer.ID)
	if err != nil {
		return nil, internal("load tweets", err)
	}
	summary := summarize(id, owner)
	items := make([]TweetItem, len(rows))
	for i, r := range rows {
		items[i] = TweetItem{
			ID:         r.ID,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
			LikesCount: r.LikesCount,
			IsLiked:    r.IsLiked,
			Owner:      summary,
		}
	}
	return items, nil
}

func (c *viewComposer) ChannelStats(ctx context.Context, channelID string) (*ChannelStats, error) {
	id, err := ParseID("channel id", channelID)
	if err != nil {
		return nil, err
	}
	ok, err := c.stores.Users.Exists(ctx, id)
	if err != nil {
		return nil, internal("check channel", err)
	}
	if !ok {
		return nil, notFound("channel")
	}

	subs, err := c.stores.Subscriptions.CountByChannel(ctx, id)
	if err != nil {
		return nil, internal("count subscribers", err)
	}
	agg, err := c.stores.Videos.AggregateByOwner(ctx, id)
	if err != nil {
		return nil, internal("aggregate videos", err)
	}
	return &ChannelStats{
		TotalSubscribers: subs,
		TotalLikes:       agg.TotalLikes,
		TotalViews:       agg.TotalViews,
		TotalVideos:      agg.TotalVideos,
	}, nil
}

func (c *viewComposer) ChannelVideos(ctx context.Context, viewer model.Principal) ([]ChannelVideo, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	rows, err := c.stores.Videos.ListByOwnerWithLikes(ctx, viewer.ID, viewer.ID)
	if err != nil {
		return nil, internal("load channel videos", err)
	}
	items := make([]ChannelVideo, len(rows))
	for i := range rows {
		items[i] = ChannelVideo{
			VideoCard:   card(&rows[i].Video),
			IsPublished: rows[i].IsPublished,
			LikesCount:  rows[i].LikesCount,
		}
	}
	return items, nil
}

func (c *viewComposer) SubscriptionFeed(ctx context.Context, viewer model.Principal) (*SubscriptionFeed, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	// 频道集合与视频分开查询，没有已发布视频的频道也保留
	channels, err := c.stores.Subscriptions.ListChannels(ctx, viewer.ID)
	if err != nil {
		return nil, internal("load subscribed channels", err)
	}
	videos, err := c.stores.Videos.ListSubscribedFeed(ctx, viewer.ID, c.limit)
	if err != nil {
		return nil, internal("load subscription feed", err)
	}

	byID := make(map[string]*model.User, len(channels))
	feed := &SubscriptionFeed{Channels: make([]OwnerSummary, 0, len(channels))}
	for _, ch := range channels {
		if _, dup := byID[ch.ID]; dup {
			continue
		}
		byID[ch.ID] = ch
		feed.Channels = append(feed.Channels, summarize(ch.ID, ch))
	}
	feed.Videos = make([]VideoItem, len(videos))
	for i, v := range videos {
		feed.Videos[i] = VideoItem{VideoCard: card(v), Owner: summarize(v.OwnerID, byID[v.OwnerID])}
	}
	return feed, nil
}

func (c *viewComposer) ChannelSubscribers(ctx context.Context, viewer model.Principal) (*ChannelSubscribers, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	users, err := c.stores.Subscriptions.ListSubscribers(ctx, viewer.ID)
	if err != nil {
		return nil, internal("load subscribers", err)
	}
	res := &ChannelSubscribers{Subscribers: make([]Subscriber, len(users)), Count: len(users)}
	for i, u := range users {
		// 频道主查看自己的订阅者，包含邮箱
		res.Subscribers[i] = Subscriber{OwnerSummary: summarize(u.ID, u), Email: u.Email}
	}
	return res, nil
}

func (c *viewComposer) PlaylistDetail(ctx context.Context, playlistID string) (*PlaylistDetail, error) {
	id, err := ParseID("playlist id", playlistID)
	if err != nil {
		return nil, err
	}
	p, err := c.stores.Playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("playlist", "load playlist", err)
	}
	// 未发布的视频只从数组中过滤，播放列表本身照常返回
	videos, err := c.stores.Playlists.ListVideos(ctx, id, true)
	if err != nil {
		return nil, internal("load playlist videos", err)
	}
	owners, err := c.loadOwners(ctx, []string{p.OwnerID})
	if err != nil {
		return nil, err
	}

	cards := make([]VideoCard, len(videos))
	for i, v := range videos {
		cards[i] = card(v)
	}
	return &PlaylistDetail{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		TotalVideos: len(cards),
		Videos:      cards,
		Owner:       summarize(p.OwnerID, owners[p.OwnerID]),
	}, nil
}

func (c *viewComposer) UserPlaylists(ctx context.Context, userID string) ([]PlaylistSummary, error) {
	id, err := ParseID("user id", userID)
	if err != nil {
		return nil, err
	}
	ok, err := c.stores.Users.Exists(ctx, id)
	if err != nil {
		return nil, internal("check user", err)
	}
	if !ok {
		return nil, notFound("user")
	}
	rows, err := c.stores.Playlists.ListByOwner(ctx, id)
	if err != nil {
		return nil, internal("load playlists", err)
	}
	items := make([]PlaylistSummary, len(rows))
	for i, r := range rows {
		items[i] = PlaylistSummary{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			TotalVideos: r.TotalVideos,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
	}
	return items, nil
}

func (c *viewComposer) VideoListing(ctx context.Context, q VideoListQuery, page repository.PageRequest) (*repository.PageResult[VideoItem], error) {
	filter := repository.VideoFilter{
		Search:        q.Query,
		SortBy:        q.SortBy,
		Desc:          !strings.EqualFold(q.SortType, "asc"),
		PublishedOnly: true,
	}
	if q.UserID != "" {
		id, err := ParseID("user id", q.UserID)
		if err != nil {
			return nil, err
		}
		ok, err := c.stores.Users.Exists(ctx, id)
		if err != nil {
			return nil, internal("check user", err)
		}
		if !ok {
			return nil, notFound("user")
		}
		filter.OwnerID = id
	}

	rows, err := repository.Paginate[model.Video](c.stores.Videos.ListQuery(ctx, filter), page)
	if err != nil {
		return nil, internal("list videos", err)
	}
	ownerIDs := make([]string, len(rows.Items))
	for i, v := range rows.Items {
		ownerIDs[i] = v.OwnerID
	}
	owners, err := c.loadOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	return repository.Map(rows, func(v model.Video) VideoItem {
		return VideoItem{VideoCard: card(&v), Owner: summarize(v.OwnerID, owners[v.OwnerID])}
	}), nil
}

func (c *viewComposer) LikedVideos(ctx context.Context, viewer model.Principal) ([]VideoItem, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	videos, err := c.stores.Videos.ListLikedBy(ctx, viewer.ID)
	if err != nil {
		return nil, internal("load liked videos", err)
	}
	return c.withOwners(ctx, videos)
}

func (c *viewComposer) WatchHistory(ctx context.Context, viewer model.Principal) ([]VideoItem, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}
	videos, err := c.stores.Users.ListWatchHistory(ctx, viewer.ID)
	if err != nil {
		return nil, internal("load watch history", err)
	}
	return c.withOwners(ctx, videos)
}

func (c *viewComposer) withOwners(ctx context.Context, videos []*model.Video) ([]VideoItem, error) {
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.OwnerID
	}
	owners, err := c.loadOwners(ctx, ids)
	if err != nil {
		return nil, err
	}
	items := make([]VideoItem, len(videos))
	for i, v := range videos {
		items[i] = VideoItem{VideoCard: card(v), Owner: summarize(v.OwnerID, owners[v.OwnerID])}
	}
	return items, nil
}
