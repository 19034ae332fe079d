package feed

import (
	"github.com/mmcdole/gofeed"
)

// 記事URL列挙のためのインターフェースとアダプター

// LinkSource は、記事URLのリストを提供できる任意の型を表します。
// このインターフェースが抽象化の境界線となり、バッチ抽出側は
// gofeed の具体構造を知る必要がありません。
type LinkSource interface {
	GetLinks() []string
}

// FeedAdapter は gofeed.Feed を LinkSource に適合させるためのアダプターです。
type FeedAdapter struct {
	*gofeed.Feed
}

// NewFeedAdapter は gofeed.Feed から新しいアダプターを作成します。
func NewFeedAdapter(feed *gofeed.Feed) *FeedAdapter {
	return &FeedAdapter{Feed: feed}
}

// GetLinks は LinkSource インターフェースを満たし、フィードの各記事のURLを返します。
// 空のリンクは読み飛ばします。
func (a *FeedAdapter) GetLinks() []string {
	if a.Feed == nil || len(a.Items) == 0 {
		return []string{}
	}

	urls := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls
}

// GetAllLinks は LinkSource から記事URLを取り出す汎用関数です。
// nil ソースも安全に扱います。
func GetAllLinks(source LinkSource) []string {
	if source == nil {
		return []string{}
	}
	return source.GetLinks()
}
