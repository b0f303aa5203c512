package responder

import "strings"

// fallbackRule pairs a keyword set with its canned reply. Rules are checked
// in order; the first set containing any matching substring wins.
type fallbackRule struct {
	keywords []string
	reply    string
}

var fallbackRules = []fallbackRule{
	{
		keywords: []string{"你好", "嗨", "hi", "hello", "哈囉"},
		reply:    "你好！我是你的智能助手。雖然高級 AI 功能暫時無法使用，但我仍然可以協助你處理一些基本問題。",
	},
	{
		keywords: []string{"幫助", "幫忙", "help", "說明", "功能"},
		reply: `我可以提供以下協助：
• 回答常見問題
• 提供基本資訊
• 進行簡單對話
• 協助使用說明

目前 AI 服務正在維護中，完整功能將稍後恢復。`,
	},
	{
		keywords: []string{"時間", "日期", "現在", "time", "date"},
		reply:    "抱歉，我目前無法取得即時時間資訊。請檢查你的裝置時間或稍後再試。",
	},
	{
		keywords: []string{"天氣", "氣溫", "weather", "下雨"},
		reply:    "抱歉，我目前無法提供天氣資訊。建議你查看天氣應用程式或氣象網站。",
	},
	{
		keywords: []string{"謝謝", "感謝", "thank", "謝"},
		reply:    "不客氣！很高興能為你服務。如有其他問題，隨時可以詢問我。",
	},
	{
		keywords: []string{"再見", "掰掰", "bye", "goodbye", "拜拜"},
		reply:    "再見！期待下次為你服務。祝你有美好的一天！",
	},
}

const fallbackDefaultReply = "我收到了你的訊息，但目前高級 AI 功能暫時無法使用。請稍後再試，或者詢問一些基本問題，我會盡力協助你。"

// Fallback maps a message to a canned reply by keyword matching. It is a
// total function: no I/O, never fails, always returns a non-empty string.
func Fallback(userMessage string) string {
	lower := strings.ToLower(userMessage)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.reply
			}
		}
	}
	return fallbackDefaultReply
}
