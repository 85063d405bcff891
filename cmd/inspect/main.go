package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hwstack/obj-runtime/engstate"
	"github.com/hwstack/obj-runtime/hal"
	"github.com/hwstack/obj-runtime/memsys"
	"github.com/hwstack/obj-runtime/object"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List registered classes and exit")
		className   = flag.String("class", "", "Dump one class: cast graph and dispatch slots")
		family      = flag.String("family", "TU102", "Chip family for the variant index")
		variant     = flag.String("variant", "PFFull", "RM variant for the variant index")
		bringup     = flag.Bool("bringup", false, "Run the demo topology through the full lifecycle")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	if *debug {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		object.SetLogger(logger)
	}

	if !*list && *className == "" && !*bringup && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: inspect -list")
		fmt.Fprintln(os.Stderr, "       inspect -class <name>")
		fmt.Fprintln(os.Stderr, "       inspect -bringup [-family F] [-variant V]")
		fmt.Fprintln(os.Stderr, "       inspect -i  (interactive mode)")
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(*family, *variant); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*list, *className, *family, *variant, *bringup); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(list bool, className, family, variant string, bringup bool) error {
	if list {
		listClasses()
		return nil
	}
	if className != "" {
		return dumpClass(className)
	}
	if bringup {
		idx, err := buildIndex(family, variant)
		if err != nil {
			return err
		}
		return runBringup(idx)
	}
	return nil
}

func listClasses() {
	classes := object.Classes()
	fmt.Printf("Registered classes: %d\n\n", len(classes))
	for _, c := range classes {
		bases := make([]string, 0, len(c.Bases()))
		for _, b := range c.Bases() {
			bases = append(bases, b.Name())
		}
		base := ""
		if len(bases) > 0 {
			base = " : " + strings.Join(bases, ", ")
		}
		fmt.Printf("  %-24s 0x%08x  %4d bytes%s\n", c.Name(), uint32(c.ID()), c.Size(), base)
	}
}

func dumpClass(name string) error {
	c, ok := object.LookupName(name)
	if !ok {
		return fmt.Errorf("class %q is not registered", name)
	}

	fmt.Printf("Class: %s\n", c)
	fmt.Printf("Size:  %d bytes\n", c.Size())

	fmt.Printf("\nCast graph (derived to root):\n")
	for _, rel := range c.Relatives() {
		marker := ""
		if rel.Class == c {
			marker = "  (self)"
		}
		fmt.Printf("  %s%s\n", rel.Class, marker)
	}

	if c == memsys.Class {
		fmt.Printf("\nDispatch slots:\n")
		for _, s := range memsys.Slots() {
			printSlot(s.Describe())
		}
	}
	return nil
}

func printSlot(d hal.Description) {
	fmt.Printf("  %s\n", d.Name)
	for i, r := range d.Rules {
		fmt.Printf("    rule %d: %s\n", i, r)
	}
	if d.HasDefault {
		fmt.Printf("    default: yes\n")
	}
}

func buildIndex(family, variant string) (hal.Index, error) {
	f, err := memsys.ChipFamily.Variant(family)
	if err != nil {
		return hal.Index{}, fmt.Errorf("family: %w", err)
	}
	v, err := memsys.RMVariant.Variant(variant)
	if err != nil {
		return hal.Index{}, fmt.Errorf("variant: %w", err)
	}
	return hal.NewIndex(f, v), nil
}

// device roots the demo topology and owns the variant index for everything
// created beneath it.
type device struct {
	object.Object
	idx hal.Index
}

func (d *device) VariantIndex() hal.Index { return d.idx }

var deviceClass = object.MustRegister(object.ClassSpec{
	Name: "Device",
	New:  func() object.Dynamic { return new(device) },
	Construct: func(self object.Dynamic, idx hal.Index) error {
		self.(*device).idx = idx
		return nil
	},
})

// buildTopology creates the demo device and its engines and returns the
// manager driving them.
func buildTopology(idx hal.Index) (object.Dynamic, *engstate.Manager, error) {
	dev, err := object.CreateWithIndex(deviceClass, nil, idx, 0)
	if err != nil {
		return nil, nil, err
	}
	kms, err := object.Create(memsys.Class, dev, 0)
	if err != nil {
		object.Destroy(dev)
		return nil, nil, err
	}

	mgr := engstate.NewManager()
	if err := mgr.Add(kms); err != nil {
		object.Destroy(dev)
		return nil, nil, err
	}
	return dev, mgr, nil
}

// lifecycleSteps is the bring-up and teardown order the demo drives.
var lifecycleSteps = []struct {
	name string
	run  func(*engstate.Manager) error
}{
	{"ConstructAll", (*engstate.Manager).ConstructAll},
	{"StatePreInitLocked", (*engstate.Manager).StatePreInitLocked},
	{"StateInitLocked", (*engstate.Manager).StateInitLocked},
	{"StateInitUnlocked", (*engstate.Manager).StateInitUnlocked},
	{"StatePreLoad", func(m *engstate.Manager) error { return m.StatePreLoad(0) }},
	{"StateLoad", func(m *engstate.Manager) error { return m.StateLoad(0) }},
	{"StatePostLoad", func(m *engstate.Manager) error { return m.StatePostLoad(0) }},
	{"StatePreUnload", func(m *engstate.Manager) error { return m.StatePreUnload(0) }},
	{"StateUnload", func(m *engstate.Manager) error { return m.StateUnload(0) }},
	{"StatePostUnload", func(m *engstate.Manager) error { return m.StatePostUnload(0) }},
	{"DestroyAll", func(m *engstate.Manager) error { m.DestroyAll(); return nil }},
}

// printObserver writes one line per lifecycle event.
type printObserver struct{}

func (printObserver) OnLifecycleEvent(ev engstate.Event) {
	status := "ok"
	if ev.Err != nil {
		status = "FAILED: " + ev.Err.Error()
	}
	fmt.Printf("    %-24s %-20s %s -> %-14s %s\n",
		ev.Engine.Name(), ev.Op, ev.From, ev.To, status)
}

func runBringup(idx hal.Index) error {
	fmt.Printf("Variant index: %s\n\n", idx)

	dev, mgr, err := buildTopology(idx)
	if err != nil {
		return err
	}
	defer object.Destroy(dev)
	mgr.Subscribe(printObserver{})

	for _, step := range lifecycleSteps {
		fmt.Printf("  %s\n", step.name)
		if err := step.run(mgr); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}

	fmt.Printf("\nFinal engine states:\n")
	for _, e := range mgr.Engines() {
		fmt.Printf("  %-24s %s\n", e.Name(), e.State())
	}

	if kms, ok := memsys.AsKernelMemorySystem(mgr.Engines()[0].Self()); ok {
		fmt.Printf("\nPolicy sample for %s:\n", idx)
		fmt.Printf("  ChooseKindZ(Z24S8)  = %s\n", kms.ChooseKindZ(memsys.PageFormat{Kind: memsys.KindZ24S8}))
		fmt.Printf("  IOCoherent          = %v\n", kms.IOCoherent())
	}
	return nil
}
