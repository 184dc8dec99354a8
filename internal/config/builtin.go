package config

import (
	"time"

	"github.com/mj1618/seller-cli/internal/batch"
	"github.com/mj1618/seller-cli/internal/style"
)

// DefaultProfile is used when neither --profile nor the page URL picks one.
const DefaultProfile = "shopee"

// markerStyles outline the control being worked on and the ones that were
// checked.
var markerStyles = style.Group{
	Name:    "marker",
	Enabled: true,
	Rules: []style.Rule{
		{Selector: ".debug-checkbox", Declarations: []style.Declaration{
			style.Decl("outline", "2px solid red !important"),
		}},
		{Selector: ".checked-checkbox", Declarations: []style.Declaration{
			style.Decl("outline", "2px solid green !important"),
		}},
	},
}

var shopeeLayout = batch.Layout{
	Table:       "table.eds-table__body",
	Rows:        "tr.eds-table__row",
	Header:      "table.eds-table__header thead tr",
	HeaderCell:  "th",
	HeaderLabel: ".eds-table__cell-label",
	Cell:        "td",
	Control:     ".eds-checkbox__input",
	MarkerClass: "checked-checkbox",
}

func hide(sel string) style.Rule {
	return style.Rule{Selector: sel, Declarations: []style.Declaration{style.Decl("display", "none")}}
}

// Builtin returns fresh copies of the compiled-in profiles.
func Builtin() []Profile {
	zh := shopeeLayout
	zh.Column = batch.ColumnTitle("包裹追踪号")

	en := shopeeLayout
	en.HeaderLabel = ""
	en.Column = batch.ColumnIndex(3)

	return []Profile{
		{
			Name:        "shopee",
			Description: "Shopee seller center, tracking number column found by its header label",
			Match:       []string{"seller.shopee.cn/**"},
			Layout:      zh,
			Timings: batch.Timings{
				ClickSettle:  20 * time.Millisecond,
				ChangeSettle: 20 * time.Millisecond,
				RowPacing:    500 * time.Millisecond,
				MarkerTTL:    3 * time.Second,
			},
			Styles: style.Sheet{markerStyles},
		},
		{
			Name:        "shopee-en",
			Description: "Shopee seller center, tracking number in the fourth column",
			Match:       []string{"seller.shopee.cn/**"},
			Layout:      en,
			Timings:     batch.DefaultTimings,
			Styles:      style.Sheet{markerStyles},
		},
		{
			Name:        "dianxiaomi",
			Description: "DianXiaoMi order pages: wider dialogs and product image links",
			Match:       []string{"www.dianxiaomi.com/**"},
			Images:      "img",
			Styles: style.Sheet{{
				Name:      "modal",
				Enabled:   true,
				Important: true,
				Rules: []style.Rule{
					{Selector: ".modal-dialog", Declarations: []style.Declaration{
						style.Decl("width", "1100px"),
						style.Decl("max-width", "90%"),
						style.Decl("transition", "width 0.3s ease"),
					}},
					{Selector: ".modal-body.tab-content", Declarations: []style.Declaration{
						style.Decl("max-height", "700px"),
						style.Decl("overflow-y", "auto"),
						style.Decl("padding", "15px"),
					}},
					{Selector: ".modal-header", Declarations: []style.Declaration{
						style.Decl("background-color", "#f8f9fa"),
						style.Decl("border-bottom", "1px solid #dee2e6"),
					}},
					hide(".templateOrderRemark"),
					hide("table#batchCommentTable > tbody > tr > th:nth-child(1)"),
					hide("table#batchCommentTable > tbody > tr > th:nth-child(4)"),
					hide("table#batchCommentTable > tbody > tr > th:nth-child(5)"),
					hide("table#batchCommentTable > tbody > tr > td:nth-child(1)"),
					hide("table#batchCommentTable > tbody > tr > td:nth-child(4)"),
					hide("table#batchCommentTable > tbody > tr > td:nth-child(5)"),
					{Selector: "table#batchCommentTable > tbody > tr > td:nth-child(3)", Declarations: []style.Declaration{
						style.Decl("min-width", "300px"),
					}},
				},
			}},
		},
	}
}
