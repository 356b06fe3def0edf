// Package i18n translates UI strings and errors. Message keys are the English
// text; Japanese strings are registered in the x/text catalog.
package i18n

import (
	"errors"

	"questflow/internal/cursor"
	"questflow/internal/editor"
	"questflow/internal/paste"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var japanese = map[string]string{
	// screens
	"Flows":        "フロー一覧",
	"Flow":         "フロー",
	"Details":      "基本情報",
	"Organization": "編成",
	"Settings":     "設定",
	"Help":         "ヘルプ",

	// action table columns
	"HP":         "HP",
	"Prediction": "予兆",
	"Charge":     "奥義",
	"Guard":      "ガード",
	"Action":     "行動",
	"Note":       "メモ",

	// flow fields
	"Title":       "タイトル",
	"Quest":       "クエスト",
	"Author":      "作成者",
	"Description": "説明",
	"Updated":     "更新日",
	"Untitled":    "無題",

	// settings
	"Language":         "言語",
	"Button alignment": "ボタン配置",
	"Table padding":    "表の余白",
	"Row activation":   "行の選択方法",
	"left":             "左",
	"right":            "右",
	"single click":     "シングルクリック",
	"double click":     "ダブルクリック",

	// modes and status
	"EDIT":                              "編集",
	"VIEW":                              "閲覧",
	"Edit mode":                         "編集モード",
	"View mode":                         "閲覧モード",
	"New flow":                          "新しいフロー",
	"Nothing to undo":                   "元に戻す操作がありません",
	"Nothing to redo":                   "やり直す操作がありません",
	"Undid edit":                        "元に戻しました",
	"Redid edit":                        "やり直しました",
	"Saved %s":                          "%sを保存しました",
	"Loaded %s":                         "%sを読み込みました",
	"Deleted %s":                        "%sを削除しました",
	"Pasted %d rows":                    "%d行を貼り付けました",
	"Copied row %d":                     "%d行目をコピーしました",
	"Settings saved":                    "設定を保存しました",
	"Row %d of %d":                      "%d / %d行",
	"Loading %s...":                     "%sを読み込み中...",
	"Delete %s? (y/n)":                  "%sを削除しますか? (y/n)",
	"No saved flows yet.":               "保存されたフローはありません。",
	"Press ctrl+n to start a new flow.": "ctrl+n で新しいフローを作成します。",
	"Clipboard unavailable: %v":         "クリップボードを使用できません: %v",
	"Error: %s":                         "エラー: %s",

	"Exported to %s":        "%sに書き出しました",
	"Flow name:":            "フロー名:",
	"Column %d unavailable": "%d列目はありません",
	"Column: %s":            "列: %s",
	"End of flow":           "フローの終わり",
	"%d rows":               "%d行",
	"END":                   "終了",
	"Only charge and guard cells hold markers":                "〇/✖は奥義とガードの列だけに入力できます",
	"Jump to column: press 1-9 (esc to cancel)":               "列へ移動: 1-9を押してください (escでキャンセル)",
	"No filterable value in selected cell":                    "選択中のセルに絞り込める値がありません",
	"Remote loading is not configured (set remote.base_url).": "リモート読み込みが設定されていません (remote.base_url を設定してください)。",
	"Changes are saved immediately.":                          "変更はすぐに保存されます。",

	// library
	"Rows":            "行数",
	"Total flows: %d": "フロー数: %d",
	"filtered: %d/%d": "絞り込み: %d/%d",
	"sorted by %s %s": "%sで%s",
	"filter %s=%q":    "絞り込み %s=%q",
	"asc":             "昇順",
	"desc":            "降順",

	// organization
	"Job":               "ジョブ",
	"Name":              "名前",
	"Equipment":         "装備",
	"Ability":           "アビリティ",
	"Front member":      "フロントメンバー",
	"Back member":       "サブメンバー",
	"Main weapon":       "メイン武器",
	"Weapon":            "武器",
	"Additional weapon": "追加武器",
	"Weapon effects":    "武器効果",
	"Main summon":       "メイン召喚石",
	"Friend summon":     "フレンド召喚石",
	"Summon":            "召喚石",
	"Sub summon":        "サブ召喚石",
	"Total effects":     "合計効果",
	"TA rate":           "TA率",
	"Defense":           "防御",

	// footer keys
	"up":             "上へ",
	"down":           "下へ",
	"prev col":       "前の列",
	"next col":       "次の列",
	"open":           "開く",
	"back":           "戻る",
	"top":            "先頭",
	"end":            "末尾",
	"quit":           "終了",
	"help":           "ヘルプ",
	"new flow":       "新規",
	"delete":         "削除",
	"load by name":   "名前で読み込み",
	"settings":       "設定",
	"sort asc":       "昇順",
	"sort desc":      "降順",
	"filter value":   "値で絞り込み",
	"clear filter":   "絞り込み解除",
	"jump col":       "列へ移動",
	"edit":           "編集",
	"finish editing": "編集終了",
	"save":           "保存",
	"export json":    "JSON書き出し",
	"edit cell":      "セル編集",
	"row below":      "下に行追加",
	"row above":      "上に行追加",
	"delete row":     "行削除",
	"duplicate row":  "行複製",
	"move row down":  "行を下へ",
	"move row up":    "行を上へ",
	"toggle 〇/✖":     "〇/✖切替",
	"paste":          "貼り付け",
	"copy row":       "行コピー",
	"details":        "基本情報",
	"organization":   "編成",
	"undo":           "元に戻す",
	"redo":           "やり直し",
	"next field":     "次の項目",
	"prev field":     "前の項目",
	"cancel":         "キャンセル",
	"next column":    "次の列",
	"prev column":    "前の列",
	"apply":          "確定",
	"choose":         "選択",
	"change":         "変更",
	"close help":     "ヘルプを閉じる",

	// full help
	"Cell editor":                              "セル編集",
	"Move down / up":                           "下 / 上へ移動",
	"Open flow":                                "フローを開く",
	"Load a published flow by name":            "公開フローを名前で読み込む",
	"Delete flow":                              "フローを削除",
	"Cycle active column":                      "選択列を切り替え",
	"Sort active column asc/desc":              "選択列で昇順/降順に並べ替え",
	"Filter by selected value / clear":         "選択値で絞り込み / 解除",
	"Quit":                                     "終了",
	"Next / previous action":                   "次 / 前の行動",
	"Jump to first action / end":               "最初の行動 / 終わりへ移動",
	"Start editing":                            "編集を開始",
	"Export JSON":                              "JSONを書き出し",
	"Back to flows":                            "フロー一覧へ戻る",
	"Move between cells":                       "セル間を移動",
	"Edit cell":                                "セルを編集",
	"Paste from clipboard":                     "クリップボードから貼り付け",
	"Copy row as TSV":                          "行をTSVでコピー",
	"Insert row below / above":                 "下 / 上に行を追加",
	"Delete / duplicate row":                   "行を削除 / 複製",
	"Move row down / up":                       "行を下 / 上へ移動",
	"Cycle 〇 / ✖ in charge and guard":          "奥義とガードの〇 / ✖を切り替え",
	"Undo / redo":                              "元に戻す / やり直し",
	"Edit details / organization":              "基本情報 / 編成を編集",
	"Jump to column":                           "列へ移動",
	"Save":                                     "保存",
	"Finish editing":                           "編集を終了",
	"Apply and move to next / previous column": "確定して次 / 前の列へ",
	"Apply":  "確定",
	"Cancel": "キャンセル",

	// errors
	"The paste column is not part of the table.":       "貼り付け先の列が表に存在しません。",
	"The pasted data has more columns than the table.": "貼り付けたデータの列数が表の列数を超えています。",
	"The pasted text contains no rows.":                "貼り付けるデータがありません。",
	"Row must be 0 or greater.":                        "currentRowは0以上の数値である必要があります",
	"Row must be at most the flow's row count (%d).":   "currentRowはフローの行数(%d)以下の数値である必要があります",
	"That row does not exist.":                         "指定された行は存在しません。",
}

func init() {
	for key, msg := range japanese {
		_ = message.SetString(language.Japanese, key, msg)
	}
}

// Translator renders messages in one language.
type Translator struct {
	lang    string
	printer *message.Printer
}

// New returns a translator for a language code such as "ja" or "en".
// Unknown codes fall back to English keys.
func New(lang string) *Translator {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Translator{lang: lang, printer: message.NewPrinter(tag)}
}

// Lang returns the language code the translator was built for.
func (t *Translator) Lang() string {
	return t.lang
}

// T formats key in the translator's language.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}

// Error renders err for display. Known error kinds get a translated
// sentence; anything else is shown as-is.
func (t *Translator) Error(err error) string {
	if err == nil {
		return ""
	}
	var rangeErr *cursor.RangeError
	switch {
	case errors.Is(err, paste.ErrInvalidStartField):
		return t.T("The paste column is not part of the table.")
	case errors.Is(err, paste.ErrTooManyColumns):
		return t.T("The pasted data has more columns than the table.")
	case errors.Is(err, paste.ErrNoValidRows):
		return t.T("The pasted text contains no rows.")
	case errors.Is(err, editor.ErrNoSuchRow):
		return t.T("That row does not exist.")
	case errors.As(err, &rangeErr):
		if rangeErr.Row < 0 {
			return t.T("Row must be 0 or greater.")
		}
		return t.T("Row must be at most the flow's row count (%d).", rangeErr.RowCount)
	default:
		return err.Error()
	}
}
