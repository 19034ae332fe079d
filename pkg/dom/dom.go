package dom

import (
	"golang.org/x/net/html"
)

// ----------------------------------------------------------------------
// *html.Node レベルの補助関数
//
// goquery は走査には便利ですが、収集してから変形する二段構えの
// その場変形 (アンラップ・削除) はノードを直接触る必要があります。
// ----------------------------------------------------------------------

// Attr は n の属性 key の値を返します。存在しない場合は ok=false です。
func Attr(n *html.Node, key string) (val string, ok bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr は属性 key の値を返し、存在しない場合は def を返します。
func AttrOr(n *html.Node, key, def string) string {
	if v, ok := Attr(n, key); ok {
		return v
	}
	return def
}

// SetAttr は属性 key を val に設定します。既存の属性があれば上書きします。
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr は属性 key を取り除きます。存在しなければ何もしません。
func RemoveAttr(n *html.Node, key string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Walk は n 自身を含むサブツリーを深さ優先・文書順で巡回します。
// fn が false を返した場合、そのノードの子孫へは降りません。
// 巡回中にツリーを変形してはいけません (収集してから適用してください)。
func Walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, fn)
	}
}

// Remove は n を親から切り離します。既に切り離されている場合は何もしません。
func Remove(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Unwrap は n を削除し、n の子ノードを兄弟順を保ったまま同じ位置へ昇格させます。
// n 自身の属性は破棄されます。
func Unwrap(n *html.Node) {
	parent := n.Parent
	if parent == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	parent.RemoveChild(n)
}
