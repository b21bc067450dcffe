/*
Package carousel is a headless, infinitely looping carousel controller.

It owns the navigation state of a horizontally paged strip of items: which
item is shown, where the strip rests, how a drag release resolves into a page
change, when autoplay advances and when rapid interruptions suspend input.
Rendering is left to the host, which feeds gestures in and reads offsets out.

# Concept

N logical items are laid out as a physical sequence. With looping enabled the
sequence holds M copies of the items on each side of the original block, and
the controller silently re-centres into the middle block whenever a settle
lands near a seam. Every transition (gesture, animation completion, autoplay
tick, programmatic navigation) runs serialised behind the controller, so
hosts can call it from any goroutine.

# Usage

	items := []domain.Item{{Key: "a"}, {Key: "b"}, {Key: "c"}}

	c := carousel.New(items,
		carousel.WithSettleHandler(func(logical int) {
			log.Println("now showing", logical)
		}),
	)
	defer c.Close()

	c.Mount()
	c.Layout(375, 200)

	// A drag to the left past half a page advances.
	c.GestureBegin()
	c.GestureMove(-220)
	c.GestureEnd(domain.GestureSample{Translation: -220, Velocity: -300})

Renderers translate each physical item by ItemOffset(i) and iterate
PhysicalItems to draw the clones.
*/
package carousel
