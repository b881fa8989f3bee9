package x11

import (
	"errors"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
)

const testRoot xproto.Window = 1

type fakeTree struct {
	clients    []xproto.Window
	clientsErr error
	tree       map[xproto.Window][]xproto.Window
}

func (f fakeTree) clientList() ([]xproto.Window, error) {
	return f.clients, f.clientsErr
}

func (f fakeTree) children(parent xproto.Window) ([]xproto.Window, error) {
	kids, ok := f.tree[parent]
	if !ok {
		return nil, errors.New("BadWindow")
	}
	return kids, nil
}

func matchID(want xproto.Window) func(xproto.Window) bool {
	return func(win xproto.Window) bool { return win == want }
}

func TestFindWindow(t *testing.T) {
	tests := []struct {
		name   string
		tree   fakeTree
		target xproto.Window
		want   xproto.Window
		wantOK bool
	}{
		{
			name:   "managed window in client list",
			tree:   fakeTree{clients: []xproto.Window{10, 20}},
			target: 20,
			want:   20,
			wantOK: true,
		},
		{
			name: "withdrawn window at top level",
			tree: fakeTree{
				clients: []xproto.Window{10},
				tree:    map[xproto.Window][]xproto.Window{testRoot: {100, 30}},
			},
			target: 30,
			want:   30,
			wantOK: true,
		},
		{
			name: "withdrawn window left inside a WM frame",
			tree: fakeTree{
				tree: map[xproto.Window][]xproto.Window{
					testRoot: {100, 200},
					100:      {10},
					200:      {40},
				},
			},
			target: 40,
			want:   40,
			wantOK: true,
		},
		{
			name: "client list failure still walks the tree",
			tree: fakeTree{
				clientsErr: errors.New("no _NET_CLIENT_LIST"),
				tree:       map[xproto.Window][]xproto.Window{testRoot: {50}},
			},
			target: 50,
			want:   50,
			wantOK: true,
		},
		{
			name: "deeper descendants are not searched",
			tree: fakeTree{
				tree: map[xproto.Window][]xproto.Window{
					testRoot: {100},
					100:      {200},
					200:      {60},
				},
			},
			target: 60,
		},
		{
			name:   "nothing matches",
			tree:   fakeTree{tree: map[xproto.Window][]xproto.Window{testRoot: {100}}},
			target: 99,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := findWindow(tt.tree, testRoot, matchID(tt.target))
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("findWindow() = %d, %v, want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFindWindow_ClientListWins(t *testing.T) {
	tree := fakeTree{
		clients: []xproto.Window{20},
		tree:    map[xproto.Window][]xproto.Window{testRoot: {10}},
	}
	var seen []xproto.Window
	got, ok := findWindow(tree, testRoot, func(win xproto.Window) bool {
		seen = append(seen, win)
		return true
	})
	if !ok || got != 20 {
		t.Fatalf("findWindow() = %d, %v, want 20 from client list", got, ok)
	}
	if len(seen) != 1 {
		t.Fatalf("tree walked after a client list match: %v", seen)
	}
}
