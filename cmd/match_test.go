package cmd

import (
	"context"
	"reflect"
	"testing"

	"github.com/mj1618/seller-cli/internal/model"
	"github.com/mj1618/seller-cli/internal/platform/static"
)

func TestMatchOrdersIsReadOnly(t *testing.T) {
	sess := staticSession(t, ordersPage, "")
	res, err := matchOrders(context.Background(), sess, []string{"SF-", "GHI789", "NOPE"})
	if err != nil {
		t.Fatalf("matchOrders: %v", err)
	}
	if len(res.Matches) != 4 {
		t.Errorf("matches = %+v", res.Matches)
	}
	if !reflect.DeepEqual(res.NotFound, []string{"NOPE"}) {
		t.Errorf("not found = %v", res.NotFound)
	}
	if n := sess.Provider.Document.(*static.Document).Writes(); n != 0 {
		t.Errorf("writes = %d, want none", n)
	}
}

func TestUnmatched(t *testing.T) {
	matches := []model.Match{{Identifier: "A"}, {Identifier: "C"}}
	tests := []struct {
		ids  []string
		want []string
	}{
		{[]string{"A", "B", "C"}, []string{"B"}},
		{[]string{"A", "C"}, []string{}},
		{[]string{"B", "B"}, []string{"B", "B"}},
	}
	for _, tt := range tests {
		if got := unmatched(tt.ids, matches); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("unmatched(%v) = %v, want %v", tt.ids, got, tt.want)
		}
	}
}
