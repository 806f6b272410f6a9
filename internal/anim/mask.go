package anim

import "github.com/SeamusWaldron/cubeview"

// None marks an unset mask slot.
const None = -1

// Mask identifies the layer currently mid-rotation. Slots are indexed by
// cubeview.Axis and hold a layer index, or None. At most one slot is set.
type Mask [3]int

// ClearMask returns a mask with every slot unset.
func ClearMask() Mask {
	return Mask{None, None, None}
}

// Set returns a mask selecting one layer along axis.
func Set(axis cubeview.Axis, layer int) Mask {
	m := ClearMask()
	m[axis] = layer
	return m
}

// Empty reports whether no slot is set.
func (m Mask) Empty() bool {
	return m == ClearMask()
}

// Active returns the masked axis and layer.
func (m Mask) Active() (cubeview.Axis, int, bool) {
	for axis, layer := range m {
		if layer != None {
			return cubeview.Axis(axis), layer, true
		}
	}
	return 0, None, false
}

// Contains reports whether block (i, j, k) lies in the masked layer.
func (m Mask) Contains(i, j, k int) bool {
	return (m[cubeview.AxisY] != None && m[cubeview.AxisY] == i) ||
		(m[cubeview.AxisZ] != None && m[cubeview.AxisZ] == j) ||
		(m[cubeview.AxisX] != None && m[cubeview.AxisX] == k)
}
