package engine

// handle indexes a freeRegion inside a regionArena.
type handle int32

const noBuddy handle = -1

// freeRegion is an uncut rectangle of one board during a search. Offsets are
// measured from the board origin.
type freeRegion struct {
	length, width   float64
	dLength, dWidth float64
	buddy           handle // sibling from the same split while both overlap
	inUse           bool
}

func (r freeRegion) area() float64 {
	return r.length * r.width
}

func (r freeRegion) fits(length, width float64) bool {
	return length <= r.length && width <= r.width
}

// usable reports whether a split remainder has room left in both directions.
func usable(length, width float64) bool {
	return length > 0 && width > 0
}

// regionArena owns every free region of one board search. Regions are only
// appended by splits and truncated on undo, so storage follows the recursion
// stack. order lists the live handles ascending by area; equal areas keep
// insertion order.
type regionArena struct {
	regions []freeRegion
	order   []handle
}

func newRegionArena(length, width float64, capacity int) *regionArena {
	a := &regionArena{
		regions: make([]freeRegion, 0, capacity),
		order:   make([]handle, 0, capacity),
	}
	a.regions = append(a.regions, freeRegion{length: length, width: width, buddy: noBuddy})
	a.order = append(a.order, 0)
	return a
}

func (a *regionArena) at(h handle) *freeRegion {
	return &a.regions[h]
}

// firstFit returns the smallest live region that can host a part of the
// given size: the first one in area order whose area is at least the part
// area, that is not in use, and whose sides each accommodate the part.
func (a *regionArena) firstFit(length, width, area float64) (handle, bool) {
	i := 0
	for i < len(a.order) && a.regions[a.order[i]].area() < area {
		i++
	}
	for ; i < len(a.order); i++ {
		r := a.regions[a.order[i]]
		if !r.inUse && r.fits(length, width) {
			return a.order[i], true
		}
	}
	return 0, false
}

// insert places h into order after every region with an area not larger
// than its own and returns the position used.
func (a *regionArena) insert(h handle) int {
	area := a.regions[h].area()
	pos := len(a.order)
	for pos > 0 && a.regions[a.order[pos-1]].area() > area {
		pos--
	}
	a.order = append(a.order, 0)
	copy(a.order[pos+1:], a.order[pos:])
	a.order[pos] = h
	return pos
}

// removeAt deletes the entry at pos from order.
func (a *regionArena) removeAt(pos int) handle {
	h := a.order[pos]
	copy(a.order[pos:], a.order[pos+1:])
	a.order = a.order[:len(a.order)-1]
	return h
}

func (a *regionArena) indexOf(h handle) int {
	for i, o := range a.order {
		if o == h {
			return i
		}
	}
	return -1
}

// insertAt puts h back at pos.
func (a *regionArena) insertAt(pos int, h handle) {
	a.order = append(a.order, 0)
	copy(a.order[pos+1:], a.order[pos:])
	a.order[pos] = h
}

// move records one reorder of a live region so it can be reverted.
type move struct {
	h        handle
	from, to int
}

// reposition restores area order for h after its size changed.
func (a *regionArena) reposition(h handle) move {
	from := a.indexOf(h)
	a.removeAt(from)
	to := a.insert(h)
	return move{h: h, from: from, to: to}
}

func (a *regionArena) revert(m move) {
	a.removeAt(m.to)
	a.insertAt(m.from, m.h)
}

// claimRecord is the undo record of one placement: the consumed region, the saved
// state of it and its buddy, the reorder done by buddy resolution and the
// remainders created by the split.
type claimRecord struct {
	used       handle
	usedBefore freeRegion

	buddy       handle
	buddyBefore freeRegion

	moved   bool
	mv      move
	created int // remainders appended to the arena
	base    int // arena length before the split
}

// claim consumes region h for a part of the given size: it resolves the
// overlap with a live buddy, marks h in use, splits it and inserts the
// surviving remainders. The returned record restores every change.
func (a *regionArena) claim(h handle, length, width, kerf float64) claimRecord {
	c := claimRecord{used: h, usedBefore: *a.at(h), buddy: noBuddy}

	if b := a.at(h).buddy; b != noBuddy {
		c.buddy = b
		c.buddyBefore = *a.at(b)
		shrunk := a.resolveBuddy(h, b, length, width, kerf)
		c.mv, c.moved = a.reposition(shrunk), true
	}

	a.at(h).inUse = true
	c.base = len(a.regions)
	c.created = a.split(h, length, width, kerf)
	return c
}

// resolveBuddy removes the overlap between the consumed region ri and its
// live buddy rj, shrinking whichever one the new part would otherwise reach
// into, and unlinks the pair. It returns the handle that was shrunk.
func (a *regionArena) resolveBuddy(ri, rj handle, length, width, kerf float64) handle {
	used, buddy := a.at(ri), a.at(rj)
	usedL, usedW := used.length, used.width
	buddyL, buddyW := buddy.length, buddy.width

	shrunk := ri
	if used.dWidth < buddy.dWidth {
		// used lies past the parent part on the length axis
		if used.dWidth+width+kerf > buddy.dWidth {
			buddy.length = buddyL - (usedL + kerf)
			shrunk = rj
		} else {
			used.width = usedW - (buddyW + kerf)
		}
	} else {
		// used lies past the parent part on the width axis
		if used.dLength+length+kerf > buddy.dLength {
			buddy.width = buddyW - (usedW + kerf)
			shrunk = rj
		} else {
			used.length = usedL - (buddyL + kerf)
		}
	}

	used.buddy = noBuddy
	buddy.buddy = noBuddy
	return shrunk
}

// split cuts region h around a part placed at its origin. The length-side
// remainder comes first, then the width-side one; both are linked as buddies
// when both survive. It returns the number of remainders inserted.
func (a *regionArena) split(h handle, length, width, kerf float64) int {
	r := *a.at(h)

	s1 := freeRegion{
		length:  r.length - length - kerf,
		width:   r.width,
		dLength: r.dLength + length + kerf,
		dWidth:  r.dWidth,
		buddy:   noBuddy,
	}
	s2 := freeRegion{
		length:  r.length,
		width:   r.width - width - kerf,
		dLength: r.dLength,
		dWidth:  r.dWidth + width + kerf,
		buddy:   noBuddy,
	}

	ok1 := usable(s1.length, s1.width)
	ok2 := usable(s2.length, s2.width)

	base := handle(len(a.regions))
	switch {
	case ok1 && ok2:
		s1.buddy = base + 1
		s2.buddy = base
		a.regions = append(a.regions, s1, s2)
		a.insert(base)
		a.insert(base + 1)
		return 2
	case ok1:
		a.regions = append(a.regions, s1)
		a.insert(base)
		return 1
	case ok2:
		a.regions = append(a.regions, s2)
		a.insert(base)
		return 1
	}
	return 0
}

// release undoes a claim. Claims must be released in reverse order.
func (a *regionArena) release(c claimRecord) {
	for i := 0; i < c.created; i++ {
		h := handle(c.base + i)
		a.removeAt(a.indexOf(h))
	}
	a.regions = a.regions[:c.base]

	if c.moved {
		a.revert(c.mv)
	}

	*a.at(c.used) = c.usedBefore
	if c.buddy != noBuddy {
		*a.at(c.buddy) = c.buddyBefore
	}
}
