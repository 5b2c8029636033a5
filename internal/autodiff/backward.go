package autodiff

import (
	"k8s.io/klog/v2"
)

// TopoOrder returns every value reachable from root through producer edges,
// in topological order: operands come before the values computed from them
// and root is last.
//
// Values are keyed by pointer identity, so a value reached through several
// paths appears exactly once.
func TopoOrder(root *Value) []*Value {
	type frame struct {
		node   *Value
		inputs []*Value
		next   int
	}

	var order []*Value
	visited := map[*Value]struct{}{root: {}}
	stack := []frame{{node: root, inputs: opInputs(root)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.inputs) {
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.inputs[top.next]
		top.next++
		if _, seen := visited[child]; seen {
			continue
		}
		visited[child] = struct{}{}
		stack = append(stack, frame{node: child, inputs: opInputs(child)})
	}

	return order
}

func opInputs(v *Value) []*Value {
	if v.op == nil {
		return nil
	}
	return v.op.Inputs()
}

// Backward runs one reverse-mode pass from root.
//
// Algorithm:
//  1. Order the graph reachable from root topologically
//  2. Seed root's gradient with 1 (d root / d root)
//  3. Walk the order from root to leaves, letting each derived value push its
//     gradient into its operands
//
// Every consumer of a value comes after it in the topological order, so a
// value's gradient is complete by the time its own rule runs.
//
// Gradients are not reset: calling Backward again adds to the gradients of
// the previous pass. Call ZeroGrad first when fresh gradients are needed.
func Backward(root *Value) {
	order := TopoOrder(root)
	if klog.V(4).Enabled() {
		klog.Infof("autodiff: backward pass over %d values", len(order))
	}

	root.grad = 1
	for i := len(order) - 1; i >= 0; i-- {
		node := order[i]
		if node.op == nil || !node.requiresGrad {
			continue
		}
		node.op.backward(node.data, node.grad)
	}
}

// Backward runs a backward pass rooted at v. See the package level Backward.
func (v *Value) Backward() {
	Backward(v)
}

// ZeroGrad resets the gradient of every value reachable from root.
func ZeroGrad(root *Value) {
	for _, v := range TopoOrder(root) {
		v.grad = 0
	}
}
