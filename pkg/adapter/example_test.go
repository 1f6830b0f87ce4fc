package adapter_test

import (
	"fmt"

	"github.com/go-drift/listbind/pkg/adapter"
	"github.com/go-drift/listbind/pkg/observable"
)

type Message struct {
	observable.Notifier
	Text string
}

func (m *Message) Edit(text string) {
	m.Text = text
	m.NotifyListeners()
}

type Cell struct {
	Label string
	data  *Message
}

func (c *Cell) SetDataContext(m *Message) { c.data = m }

type printObserver struct{}

func (printObserver) OnDataSetChanged() { fmt.Println("data set changed") }

// This example shows a host recycling a single cell across two rows.
func ExampleAdapter() {
	first, second := &Message{Text: "hello"}, &Message{Text: "world"}
	messages := observable.NewList([]*Message{first, second})

	a, _ := adapter.New[*Message](messages, adapter.Config[*Message]{
		NewView: func() adapter.View[*Message] { return &Cell{} },
		OnCreate: func(v adapter.View[*Message]) {
			fmt.Println("create cell")
		},
		OnPrepare: func(v adapter.View[*Message], m *Message) {
			v.(*Cell).Label = m.Text
			fmt.Println("prepare:", m.Text)
		},
	})
	_ = a.RegisterObserver(printObserver{})

	cell, _ := a.ResolveView(0, nil)
	cell, _ = a.ResolveView(0, cell) // fast path, nothing printed
	cell, _ = a.ResolveView(1, cell) // recycled for the second row

	first.Edit("ignored") // no longer bound
	second.Edit("world!")
	fmt.Println("label:", cell.(*Cell).Label, "bound to:", cell.(*Cell).data.Text)

	// Output:
	// create cell
	// prepare: hello
	// prepare: world
	// data set changed
	// label: world bound to: world!
}

// This example shows forcing a refresh without changing the bound item.
func ExampleAdapter_MarkDirty() {
	msg := &Message{Text: "draft"}
	a, _ := adapter.New[*Message](observable.NewList([]*Message{msg}), adapter.Config[*Message]{
		NewView: func() adapter.View[*Message] { return &Cell{} },
		OnPrepare: func(v adapter.View[*Message], m *Message) {
			fmt.Println("prepare:", m.Text)
		},
	})

	cell, _ := a.ResolveView(0, nil)
	msg.Text = "sent"
	a.MarkDirty(cell)
	_, _ = a.ResolveView(0, cell)
	_, _ = a.ResolveView(0, cell)

	// Output:
	// prepare: draft
	// prepare: sent
}
