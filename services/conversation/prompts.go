package conversation

import (
	"fmt"
	"strings"

	"salonai/models"
)

// User-facing prompt texts. Kept together so the whole dialogue can be
// proofread in one place.
const (
	cancelFooter = "※予約をキャンセルされる場合は「キャンセル」とお送りください。"

	msgFlowAbandoned = "予約をキャンセルいたします。またのご利用をお待ちしております。"

	msgCancelInfo = "予約のキャンセルについてですね。お電話でお問い合わせください。"

	msgNoReservations = "現在、変更可能なご予約が見つかりませんでした。新しいご予約は「予約」とお送りください。"

	msgReservationNotFound = "申し訳ございませんが、そのご予約が見つかりませんでした。番号でお選びください。"

	msgDateUnrecognized = "申し訳ございませんが、その日付は選択できません。「明日」「明後日」「土曜日」または「2025-07-01」の形式でお送りください。"

	msgConfirmDeclined = "予約をキャンセルいたします。またのご利用をお待ちしております。"

	msgFlowBroken = "予約フローに問題が発生しました。最初からやり直してください。"
)

func promptServiceMenu(catalog *models.Catalog) string {
	var b strings.Builder
	b.WriteString("ご予約ありがとうございます！\nどのサービスをご希望ですか？\n\n")
	for _, s := range catalog.Services {
		fmt.Fprintf(&b, "・%s（%d分・%s円）\n", s.Name, s.DurationMinutes, formatPrice(s.Price))
	}
	b.WriteString("\nサービス名をお送りください。\n\n")
	b.WriteString(cancelFooter)
	return b.String()
}

func promptStaffMenu(catalog *models.Catalog, serviceName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sですね！\n担当の美容師をお選びください。\n\n", serviceName)
	for _, s := range catalog.Staff {
		if s.Name == "未指定" {
			fmt.Fprintf(&b, "・%s（%s）\n", s.Name, s.Experience)
			continue
		}
		fmt.Fprintf(&b, "・%s（%s専門・%s経験）\n", s.Name, s.Specialty, s.Experience)
	}
	b.WriteString("\n美容師名をお送りください。\n\n")
	b.WriteString(cancelFooter)
	return b.String()
}

func promptDateMenu(staffName string) string {
	display := staffName
	if staffName != "未指定" {
		display = staffName + "さん"
	}
	return fmt.Sprintf(`%sですね！
ご希望の日付をお選びください。

今週の空いている日：
・明日
・明後日
・今週の土曜日

日付をお送りください。

%s`, display, cancelFooter)
}

func promptTimeMenu(date string, slots []models.Interval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sですね！\n空いている時間帯は以下の通りです：\n\n", date)
	for _, s := range slots {
		fmt.Fprintf(&b, "・%s\n", s.Label())
	}
	b.WriteString("\nご希望の時間をお送りください。\n\n")
	b.WriteString(cancelFooter)
	return b.String()
}

func promptNoSlotsOnDate(date string) string {
	return fmt.Sprintf("申し訳ございませんが、%sは空いている時間がありません。他の日付をお選びください。", date)
}

func promptBookingConfirmation(date string, start int, svc models.ServiceSpec, staffName string) string {
	return fmt.Sprintf(`予約内容の確認です：

📅 日時：%s %s
💇 サービス：%s
👨‍💼 担当者：%s
⏱️ 所要時間：%d分
💰 料金：%s円

この内容で予約を確定しますか？
「はい」または「確定」とお送りください。

%s`, date, models.FormatMinute(start), svc.Name, staffName, svc.DurationMinutes,
		formatPrice(svc.Price), cancelFooter)
}

func promptBookingComplete(res *models.Reservation) string {
	return fmt.Sprintf(`✅ 予約が確定いたしました！

📅 日時：%s %s
💇 サービス：%s
👨‍💼 担当者：%s

当日はお時間までにお越しください。
ご予約ありがとうございました！`, res.Date, models.FormatMinute(res.Start), res.ServiceName, res.StaffName)
}

func promptReservationList(reservations []models.Reservation) string {
	var b strings.Builder
	b.WriteString("ご予約の変更ですね。\n変更するご予約を番号でお選びください。\n\n")
	for i, r := range reservations {
		fmt.Fprintf(&b, "%d. %s %s %s（%s）\n", i+1, r.Date, r.Window().Label(), r.ServiceName, r.StaffName)
	}
	b.WriteString("\n")
	b.WriteString("※変更をやめる場合は「キャンセル」とお送りください。")
	return b.String()
}

func promptFieldMenu(res *models.Reservation) string {
	return fmt.Sprintf(`%s %s の%s（担当：%s）ですね。
変更したい項目をお選びください。

1. 時間
2. サービス
3. 担当者

番号または項目名をお送りください。

※変更をやめる場合は「キャンセル」とお送りください。`,
		res.Date, res.Window().Label(), res.ServiceName, res.StaffName)
}

// promptFreeSlots lists the day's free slots, marking the slot that holds
// the reservation's current window. The marker is computed from the returned
// slots themselves, never re-derived from raw calendar events.
func promptFreeSlots(res *models.Reservation, slots []models.Interval) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%sの空き時間は以下の通りです：\n\n", res.Date)
	current := res.Window()
	for _, s := range slots {
		if s.Contains(current) {
			fmt.Fprintf(&b, "・%s（現在のご予約を含む）\n", s.Label())
			continue
		}
		fmt.Fprintf(&b, "・%s\n", s.Label())
	}
	b.WriteString("\n新しい時間をお送りください（例：10時、10:00~11:30）。")
	return b.String()
}

// promptServiceChoices lists the catalog. Services longer than the free
// time remaining at the reservation's current start are marked, since
// choosing one requires changing the time as well.
func promptServiceChoices(catalog *models.Catalog, capacityMinutes int) string {
	var b strings.Builder
	b.WriteString("新しいサービスをお選びください。\n\n")
	for _, s := range catalog.Services {
		fmt.Fprintf(&b, "・%s（%d分・%s円）", s.Name, s.DurationMinutes, formatPrice(s.Price))
		if s.DurationMinutes > capacityMinutes {
			b.WriteString(" ※時間の変更も必要")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func promptStaffChoices(catalog *models.Catalog) string {
	var b strings.Builder
	b.WriteString("新しい担当者をお選びください。\n\n")
	for _, s := range catalog.Staff {
		fmt.Fprintf(&b, "・%s\n", s.Name)
	}
	return strings.TrimRight(b.String(), "\n")
}

func promptModificationComplete(res *models.Reservation) string {
	return fmt.Sprintf(`✅ ご予約を変更いたしました！

📅 日時：%s %s
💇 サービス：%s
👨‍💼 担当者：%s

当日はお時間までにお越しください。`, res.Date, res.Window().Label(), res.ServiceName, res.StaffName)
}

func promptNoOpConfirmed(res *models.Reservation) string {
	return fmt.Sprintf("現在のご予約（%s %s）と同じ内容です。変更はありません。", res.Date, res.Window().Label())
}

// formatPrice inserts thousands separators: 12000 -> "12,000".
func formatPrice(price int) string {
	s := fmt.Sprintf("%d", price)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	return s + "," + strings.Join(parts, ",")
}
