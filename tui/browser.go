// Package tui implements a read-only terminal browser over a decoded
// bytecode.Scene, a memory.Facade, and an object.Table. It is grounded in
// the teacher's debugger/tui.go (tview Application/Pages/TextView wiring,
// F-key global bindings, panel-per-concern layout), adapted from an
// *execution* debugger — which needs a live, single-steppable VM to drive
// its panels — to a *state* browser, since there is no in-repo bytecode
// dispatcher to single-step (spec.md §1's "machine" is an external
// collaborator). Every view here renders data already produced by the
// archive/memory/object packages; nothing in this package mutates it.
package tui

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/object"
)

// bankCycle is the fixed order banks rotate through on 'n'/'p', mirroring
// memory.Facade's own global/local bank families.
var bankCycle = []memory.BankCode{
	memory.BankA, memory.BankB, memory.BankC, memory.BankD, memory.BankE,
	memory.BankF, memory.BankX, memory.BankG, memory.BankZ, memory.BankH,
	memory.BankI, memory.BankJ,
}

// Browser is the top-level TUI application: one scene, one memory facade,
// one object table, rendered read-only.
type Browser struct {
	App   *tview.Application
	Pages *tview.Pages

	MainLayout *tview.Flex
	SceneView  *tview.TextView
	MemoryView *tview.TextView
	ObjectView *tview.TextView
	StatusView *tview.TextView

	scene   *bytecode.Scene
	mem     *memory.Facade
	objects *object.Table

	bankIndex int
	cursor    uint32 // currently selected element offset within scene.Order
}

// NewBrowser builds a Browser over the given scene/memory/object state.
// Any of scene, mem, objects may be nil; the corresponding view then
// reports "not loaded" instead of panicking.
func NewBrowser(scene *bytecode.Scene, mem *memory.Facade, objects *object.Table) *Browser {
	b := &Browser{
		App:     tview.NewApplication(),
		scene:   scene,
		mem:     mem,
		objects: objects,
	}
	b.initializeViews()
	b.buildLayout()
	b.setupKeyBindings()
	return b
}

func (b *Browser) initializeViews() {
	b.SceneView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	b.SceneView.SetBorder(true).SetTitle(" Scene ")

	b.MemoryView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	b.MemoryView.SetBorder(true).SetTitle(" Memory ")

	b.ObjectView = tview.NewTextView().SetDynamicColors(true).SetScrollable(true)
	b.ObjectView.SetBorder(true).SetTitle(" Objects ")

	b.StatusView = tview.NewTextView().SetDynamicColors(true)
	b.StatusView.SetBorder(true).SetTitle(" Keys ")
}

func (b *Browser) buildLayout() {
	right := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(b.MemoryView, 0, 1, false).
		AddItem(b.ObjectView, 0, 1, false)

	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(b.SceneView, 0, 2, false).
		AddItem(right, 0, 1, false)

	b.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 5, false).
		AddItem(b.StatusView, 3, 0, false)

	b.Pages = tview.NewPages().AddPage("main", b.MainLayout, true, true)
}

func (b *Browser) setupKeyBindings() {
	b.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyCtrlC:
			b.App.Stop()
			return nil
		case event.Rune() == 'q':
			b.App.Stop()
			return nil
		case event.Key() == tcell.KeyDown:
			b.moveCursor(1)
			return nil
		case event.Key() == tcell.KeyUp:
			b.moveCursor(-1)
			return nil
		case event.Rune() == 'n':
			b.cycleBank(1)
			return nil
		case event.Rune() == 'p':
			b.cycleBank(-1)
			return nil
		case event.Key() == tcell.KeyCtrlL:
			b.RefreshAll()
			return nil
		}
		return event
	})
}

func (b *Browser) moveCursor(delta int) {
	if b.scene == nil || len(b.scene.Order) == 0 {
		return
	}
	idx := 0
	for i, off := range b.scene.Order {
		if off == b.cursor {
			idx = i
			break
		}
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(b.scene.Order) {
		idx = len(b.scene.Order) - 1
	}
	b.cursor = b.scene.Order[idx]
	b.RefreshAll()
}

func (b *Browser) cycleBank(delta int) {
	n := len(bankCycle)
	b.bankIndex = ((b.bankIndex+delta)%n + n) % n
	b.RefreshAll()
}

// RefreshAll redraws every panel from current state.
func (b *Browser) RefreshAll() {
	b.updateSceneView()
	b.updateMemoryView()
	b.updateObjectView()
	b.updateStatusView()
	b.App.Draw()
}

func (b *Browser) updateSceneView() {
	b.SceneView.SetText(renderScene(b.scene, b.cursor))
}

// renderScene is the pure rendering logic behind updateSceneView, split
// out so it is testable without a live tview.Application/screen.
func renderScene(scene *bytecode.Scene, cursor uint32) string {
	if scene == nil {
		return "[yellow]No scene loaded[white]"
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]Scene %d (%s)[white]", scene.ID, scene.Name))
	for _, off := range scene.Order {
		el, _ := scene.At(off)
		marker := "  "
		if off == cursor {
			marker = "->"
		}
		lines = append(lines, fmt.Sprintf("%s 0x%06X: %s", marker, off, describeElement(el)))
	}
	return strings.Join(lines, "\n")
}

func describeElement(el bytecode.Element) string {
	switch el.Kind {
	case bytecode.KindText:
		return fmt.Sprintf("text %q", el.Text)
	case bytecode.KindExpression:
		return "expr"
	case bytecode.KindCommand:
		return fmt.Sprintf("op<%d:%d,%d> argc=%d", el.Op.Mod, el.Op.Cmd, el.Op.Overload, len(el.Args))
	case bytecode.KindGoto:
		return fmt.Sprintf("goto 0x%06X", el.Target)
	case bytecode.KindMeta:
		if el.EntrypointID != nil {
			return fmt.Sprintf("meta tag=%d value=%d entrypoint=%d", el.MetaTag, el.MetaValue, *el.EntrypointID)
		}
		return fmt.Sprintf("meta tag=%d value=%d", el.MetaTag, el.MetaValue)
	default:
		return "?"
	}
}

func (b *Browser) updateMemoryView() {
	b.MemoryView.SetText(renderMemory(b.mem, bankCycle[b.bankIndex]))
}

// renderMemory is the pure rendering logic behind updateMemoryView.
func renderMemory(mem *memory.Facade, bank memory.BankCode) string {
	if mem == nil {
		return "[yellow]No memory loaded[white]"
	}
	size, runs, err := mem.IntBankSnapshot(bank)
	if err != nil {
		return fmt.Sprintf("[red]bank %s: %v[white]", bank, err)
	}
	var lines []string
	lines = append(lines, fmt.Sprintf("[yellow]Bank %s (size %d)[white]", bank, size))
	for _, run := range runs {
		lines = append(lines, fmt.Sprintf("[%d,%d): %d", run.From, run.To, run.Value))
	}
	return strings.Join(lines, "\n")
}

func (b *Browser) updateObjectView() {
	b.ObjectView.SetText(renderObjects(b.objects))
}

// renderObjects is the pure rendering logic behind updateObjectView.
func renderObjects(objects *object.Table) string {
	if objects == nil {
		return "[yellow]No objects loaded[white]"
	}
	var lines []string
	for _, id := range objects.IDs() {
		obj, ok := objects.Get(id)
		if !ok {
			continue
		}
		kind := "none"
		frame := ""
		if obj.Data != nil {
			kind = kindName(obj.Data.Kind)
			if obj.Data.Kind == object.ObjectAnim {
				frame = fmt.Sprintf(" frame=%d/%d", obj.Data.FrameIndex, obj.Data.FrameCount)
			}
		}
		lines = append(lines, fmt.Sprintf("#%d %s%s dirty=%v", id, kind, frame, obj.Dirty))
	}
	if len(lines) == 0 {
		lines = append(lines, "[yellow]No live objects[white]")
	}
	return strings.Join(lines, "\n")
}

func kindName(k object.ObjectKind) string {
	switch k {
	case object.ObjectFile:
		return "file"
	case object.ObjectText:
		return "text"
	case object.ObjectAnim:
		return "anim"
	case object.ObjectParent:
		return "parent"
	default:
		return "none"
	}
}

func (b *Browser) updateStatusView() {
	b.StatusView.SetText("[::b]q[::-] quit  [::b]up/down[::-] move scene cursor  [::b]n/p[::-] cycle memory bank  [::b]ctrl-l[::-] redraw")
}

// Run starts the application's event loop; it blocks until Stop is called
// or the user quits.
func (b *Browser) Run() error {
	b.RefreshAll()
	return b.App.SetRoot(b.Pages, true).Run()
}

// Stop tears down the application.
func (b *Browser) Stop() {
	b.App.Stop()
}
