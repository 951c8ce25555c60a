package booking

// User-facing rejection messages. Each failure kind speaks through one of
// these pre-composed strings; internal error details stay in the logs.
const (
	MsgTimeUnparseable = `時間の入力形式が正しくありません。

正しい入力例：
・10時
・15時30分
・14:00
・10:00~11:30

上記の空き時間からお選びください。`

	msgSlotTooShort = "申し訳ございませんが、%sからの空き時間では所要時間（%d分）が確保できません。他の時間をお選びください。"

	msgNoMatchingSlot = "申し訳ございませんが、%sは空いていません。上記の空き時間からお選びください。"

	msgUnknownService = "申し訳ございませんが、そのサービスは提供しておりません。次のサービスからお選びください：%s"

	msgUnknownStaff = "申し訳ございませんが、その美容師は選択できません。次の美容師からお選びください：%s"

	msgNoSlotForService = "申し訳ございませんが、%sに必要な空き時間が%sにはありません。他の日付をご検討ください。"

	msgServiceNeedsNewTime = "現在の開始時刻では%sの所要時間が確保できません。お手数ですが、時間の変更も合わせてお申し付けください。"

	MsgGatewayFailure = "申し訳ございませんが、処理中にエラーが発生しました。しばらくしてからもう一度お試しください。"
)
