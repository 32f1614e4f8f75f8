package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/d60-Lab/vidtube/internal/model"
)

type PlaylistInput struct {
	Name        string `validate:"notblank,max=255"`
	Description string `validate:"notblank"`
}

// PlaylistView 播放列表及其视频 id（按加入顺序）
type PlaylistView struct {
	model.Playlist
	Videos []string `json:"videos"`
}

type PlaylistService interface {
	Create(ctx context.Context, actor model.Principal, in PlaylistInput) (*PlaylistView, error)
	Update(ctx context.Context, actor model.Principal, playlistID string, in PlaylistInput) (*PlaylistView, error)
	Delete(ctx context.Context, actor model.Principal, playlistID string) error
	AddVideo(ctx context.Context, actor model.Principal, playlistID, videoID string) (*PlaylistView, error)
	RemoveVideo(ctx context.Context, actor model.Principal, playlistID, videoID string) (*PlaylistView, error)
}

type playlistService struct {
	stores Stores
}

func NewPlaylistService(stores Stores) PlaylistService {
	return &playlistService{stores: stores}
}

func (s *playlistService) Create(ctx context.Context, actor model.Principal, in PlaylistInput) (*PlaylistView, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	p := &model.Playlist{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		OwnerID:     actor.ID,
	}
	if err := s.stores.Playlists.Create(ctx, p); err != nil {
		return nil, internal("create playlist", err)
	}
	return &PlaylistView{Playlist: *p, Videos: []string{}}, nil
}

func (s *playlistService) Update(ctx context.Context, actor model.Principal, playlistID string, in PlaylistInput) (*PlaylistView, error) {
	p, err := s.owned(ctx, actor, playlistID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}
	updated, err := s.stores.Playlists.Update(ctx, p.ID, map[string]interface{}{
		"name":        strings.TrimSpace(in.Name),
		"description": strings.TrimSpace(in.Description),
	})
	if err != nil {
		return nil, storeErr("playlist", "update playlist", err)
	}
	return s.view(ctx, updated)
}

func (s *playlistService) Delete(ctx context.Context, actor model.Principal, playlistID string) error {
	p, err := s.owned(ctx, actor, playlistID)
	if err != nil {
		return err
	}
	if _, err := s.stores.Playlists.DeleteMembers(ctx, p.ID); err != nil {
		return internal("delete playlist members", err)
	}
	if _, err := s.stores.Playlists.Delete(ctx, p.ID); err != nil {
		return internal("delete playlist", err)
	}
	return nil
}

func (s *playlistService) AddVideo(ctx context.Context, actor model.Principal, playlistID, videoID string) (*PlaylistView, error) {
	p, vid, err := s.member(ctx, actor, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Playlists.AddVideo(ctx, p.ID, vid); err != nil {
		return nil, internal("add playlist video", err)
	}
	return s.view(ctx, p)
}

func (s *playlistService) RemoveVideo(ctx context.Context, actor model.Principal, playlistID, videoID string) (*PlaylistView, error) {
	p, vid, err := s.member(ctx, actor, playlistID, videoID)
	if err != nil {
		return nil, err
	}
	if err := s.stores.Playlists.RemoveVideo(ctx, p.ID, vid); err != nil {
		return nil, internal("remove playlist video", err)
	}
	return s.view(ctx, p)
}

// member 两个 id 先校验格式，再加载播放列表并校验所有权，最后确认视频存在
func (s *playlistService) member(ctx context.Context, actor model.Principal, playlistID, videoID string) (*model.Playlist, string, error) {
	pid, err := ParseID("playlist id", playlistID)
	if err != nil {
		return nil, "", err
	}
	vid, err := ParseID("video id", videoID)
	if err != nil {
		return nil, "", err
	}
	p, err := s.stores.Playlists.GetByID(ctx, pid)
	if err != nil {
		return nil, "", storeErr("playlist", "load playlist", err)
	}
	if err := Authorize(p, actor); err != nil {
		return nil, "", err
	}
	ok, err := s.stores.Videos.Exists(ctx, vid)
	if err != nil {
		return nil, "", internal("check video", err)
	}
	if !ok {
		return nil, "", notFound("video")
	}
	return p, vid, nil
}

func (s *playlistService) owned(ctx context.Context, actor model.Principal, playlistID string) (*model.Playlist, error) {
	id, err := ParseID("playlist id", playlistID)
	if err != nil {
		return nil, err
	}
	p, err := s.stores.Playlists.GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("playlist", "load playlist", err)
	}
	if err := Authorize(p, actor); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *playlistService) view(ctx context.Context, p *model.Playlist) (*PlaylistView, error) {
	ids, err := s.stores.Playlists.VideoIDs(ctx, p.ID)
	if err != nil {
		return nil, internal("load playlist videos", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return &PlaylistView{Playlist: *p, Videos: ids}, nil
}
