package ast

// Path is handed to a visitor callback: Node is the node being visited,
// Remove excises it from its parent's child slice (a no-op for the root
// or for a slot that was already removed).
type Path struct {
	node     Node
	removeFn func()
	removed  bool
}

func (p *Path) Node() Node { return p.node }

func (p *Path) Remove() {
	if p.removed || p.removeFn == nil {
		return
	}
	p.removeFn()
	p.removed = true
}

// VisitorFunc is invoked once per node whose Kind matches the key it was
// registered under.
type VisitorFunc func(path *Path)

// Visitors maps a node Kind to the callback invoked for every node of
// that kind encountered during Traverse.
type Visitors map[Kind]VisitorFunc

// Traverse performs a depth-first walk of root, invoking the matching
// visitor (if any) for each node before descending into its children.
// If a visitor calls path.Remove() on a node reached through a slice
// field, that slot is excised and its children are not visited.
func Traverse(root Node, visitors Visitors) {
	if root == nil {
		return
	}
	walk(root, visitors, nil)
}

func visit(n Node, visitors Visitors, removeFn func()) *Path {
	path := &Path{node: n, removeFn: removeFn}
	if v, ok := visitors[n.Kind()]; ok {
		v(path)
	}
	return path
}

func walk(n Node, visitors Visitors, removeFn func()) {
	path := visit(n, visitors, removeFn)
	if path.removed {
		return
	}

	switch node := n.(type) {
	case *Program:
		walkSlice(node.Body, visitors, func(i int) { removeAt(&node.Body, i) })
	case *Module:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		walkFieldSlice(node.Fields, visitors, func(i int) { removeFieldAt(&node.Fields, i) })
	case *Func:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.Signature != nil {
			walk(node.Signature, visitors, nil)
		}
		walkInstrSlice(node.Body, visitors, func(i int) { removeInstrAt(&node.Body, i) })
	case *Signature:
		if node.TypeIndex != nil {
			walk(node.TypeIndex, visitors, nil)
		}
	case *Instr:
		walkInstrSlice(node.Args, visitors, func(i int) { removeInstrAt(&node.Args, i) })
	case *BlockInstruction:
		if node.Label != nil {
			walk(node.Label, visitors, nil)
		}
		walkInstrSlice(node.Instr, visitors, func(i int) { removeInstrAt(&node.Instr, i) })
	case *LoopInstruction:
		if node.Label != nil {
			walk(node.Label, visitors, nil)
		}
		walkInstrSlice(node.Instr, visitors, func(i int) { removeInstrAt(&node.Instr, i) })
	case *IfInstruction:
		if node.Label != nil {
			walk(node.Label, visitors, nil)
		}
		walkInstrSlice(node.Test, visitors, func(i int) { removeInstrAt(&node.Test, i) })
		walkInstrSlice(node.Consequent, visitors, func(i int) { removeInstrAt(&node.Consequent, i) })
		walkInstrSlice(node.Alternate, visitors, func(i int) { removeInstrAt(&node.Alternate, i) })
	case *CallInstruction:
		if node.Index != nil {
			walk(node.Index, visitors, nil)
		}
		walkInstrSlice(node.InstrArgs, visitors, func(i int) { removeInstrAt(&node.InstrArgs, i) })
	case *CallIndirectInstruction:
		if node.Signature != nil {
			walk(node.Signature, visitors, nil)
		}
		walkInstrSlice(node.InstrArgs, visitors, func(i int) { removeInstrAt(&node.InstrArgs, i) })
	case *TypeInstruction:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.Signature != nil {
			walk(node.Signature, visitors, nil)
		}
	case *ModuleImport:
		if node.Descr != nil {
			walk(node.Descr, visitors, nil)
		}
	case *ModuleExport:
		if node.Descr.ID != nil {
			walk(node.Descr.ID, visitors, nil)
		}
	case *Memory:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.Limits != nil {
			walk(node.Limits, visitors, nil)
		}
	case *Table:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.Limits != nil {
			walk(node.Limits, visitors, nil)
		}
		for _, idx := range node.ElemIndices {
			walk(idx, visitors, nil)
		}
	case *Global:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.GlobalType != nil {
			walk(node.GlobalType, visitors, nil)
		}
		walkInstrSlice(node.Init, visitors, func(i int) { removeInstrAt(&node.Init, i) })
	case *Data:
		if node.MemoryIndex != nil {
			walk(node.MemoryIndex, visitors, nil)
		}
		if node.Offset != nil {
			walk(node.Offset, visitors, nil)
		}
		if node.Init != nil {
			walk(node.Init, visitors, nil)
		}
	case *Elem:
		if node.TableIndex != nil {
			walk(node.TableIndex, visitors, nil)
		}
		walkInstrSlice(node.Offset, visitors, func(i int) { removeInstrAt(&node.Offset, i) })
		for _, idx := range node.Funcs {
			walk(idx, visitors, nil)
		}
	case *Start:
		if node.Index != nil {
			walk(node.Index, visitors, nil)
		}
	case *FuncImportDescr:
		if node.ID != nil {
			walk(node.ID, visitors, nil)
		}
		if node.Signature != nil {
			walk(node.Signature, visitors, nil)
		}
	// Leaves: Identifier, NumberLiteral, ValtypeLiteral, StringLiteral,
	// IndexLiteral, MemIndexLiteral, Limit, GlobalType, ByteArray,
	// LeadingComment, BlockComment carry no Node children.
	}
}

func walkSlice(nodes []Node, visitors Visitors, removeAt func(int)) {
	// A removal shifts the next element into slot i, so i only advances
	// past elements that stayed.
	removed := 0
	for i := 0; i < len(nodes)-removed; {
		idx, gone := i, false
		walk(nodes[i], visitors, func() { removeAt(idx); gone = true })
		if gone {
			removed++
		} else {
			i++
		}
	}
}

func walkFieldSlice(fields []ModuleField, visitors Visitors, remove func(int)) {
	removed := 0
	for i := 0; i < len(fields)-removed; {
		idx, gone := i, false
		walk(fields[i], visitors, func() { remove(idx); gone = true })
		if gone {
			removed++
		} else {
			i++
		}
	}
}

func walkInstrSlice(instrs []Instruction, visitors Visitors, remove func(int)) {
	removed := 0
	for i := 0; i < len(instrs)-removed; {
		idx, gone := i, false
		walk(instrs[i], visitors, func() { remove(idx); gone = true })
		if gone {
			removed++
		} else {
			i++
		}
	}
}

func removeAt(s *[]Node, i int) {
	if i < 0 || i >= len(*s) {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}

func removeFieldAt(s *[]ModuleField, i int) {
	if i < 0 || i >= len(*s) {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}

func removeInstrAt(s *[]Instruction, i int) {
	if i < 0 || i >= len(*s) {
		return
	}
	*s = append((*s)[:i], (*s)[i+1:]...)
}
