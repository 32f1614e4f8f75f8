package model

// All 需要迁移的全部表
func All() []interface{} {
	return []interface{}{
		&User{},
		&WatchEntry{},
		&Video{},
		&Comment{},
		&Tweet{},
		&Like{},
		&Subscription{},
		&Playlist{},
		&PlaylistVideo{},
	}
}
