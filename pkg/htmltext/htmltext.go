package htmltext

import (
	"strings"

	"github.com/jaytaylor/html2text"
)

// Strip 将 HTML 转为纯文本
// 保留链接 URL、丢弃图片，并压缩多余空白；空输入或转换失败时原样返回
func Strip(html string) string {
	if html == "" {
		return ""
	}

	text, err := html2text.FromString(html, html2text.Options{
		OmitLinks: false,
		TextOnly:  false,
	})
	if err != nil {
		// 转换失败时退回原始内容，避免丢数据
		return html
	}

	return strings.Join(strings.Fields(text), " ")
}
