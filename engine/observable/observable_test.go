package observable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	name string
	log  *[]string
	got  []int
}

func (r *recorder) Update(v int) {
	r.got = append(r.got, v)
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
}

func TestAttachReplaysLastValue(t *testing.T) {
	o := New(0)
	o.Notify(7)

	r := &recorder{}
	o.Attach(r)

	require.Len(t, r.got, 1)
	assert.Equal(t, 7, r.got[0])
}

func TestAttachBeforeFirstNotifyReplaysInitial(t *testing.T) {
	o := New(42)
	r := &recorder{}
	o.Attach(r)
	assert.Equal(t, []int{42}, r.got)
}

func TestNotifyOrderIsRegistrationOrder(t *testing.T) {
	var log []string
	o := New(0)
	a := &recorder{name: "a", log: &log}
	b := &recorder{name: "b", log: &log}
	c := &recorder{name: "c", log: &log}
	o.Attach(a)
	o.Attach(b)
	o.Attach(c)
	log = nil

	o.Notify(1)
	o.Notify(2)

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, log)
	assert.Equal(t, []int{0, 1, 2}, b.got)
	assert.Equal(t, 2, o.Last())
}

func TestDetachRemovesObserver(t *testing.T) {
	o := New(0)
	r := &recorder{}
	o.Attach(r)
	o.Detach(r)
	o.Notify(5)

	assert.Equal(t, []int{0}, r.got)
	assert.Equal(t, 0, o.Len())
}

func TestDetachUnregisteredPanics(t *testing.T) {
	o := New(0)
	assert.Panics(t, func() { o.Detach(&recorder{}) })
}

func TestDetachRemovesFirstMatchOnly(t *testing.T) {
	o := New(0)
	r := &recorder{}
	o.Attach(r)
	o.Attach(r)
	o.Detach(r)
	o.Notify(3)

	assert.Equal(t, 1, o.Len())
	assert.Equal(t, []int{0, 0, 3}, r.got)
}

func TestSubscriptionDetach(t *testing.T) {
	o := New("")
	var got []string
	sub := o.AttachFunc(func(s string) { got = append(got, s) })
	require.True(t, sub.Active())

	o.Notify("x")
	sub.Detach()
	o.Notify("y")

	assert.Equal(t, []string{"", "x"}, got)
	assert.False(t, sub.Active())
	assert.Panics(t, func() { sub.Detach() })
}

func TestAttachNilPanics(t *testing.T) {
	o := New(0)
	assert.Panics(t, func() { o.Attach(nil) })
}

func TestDetachDuringNotifyTakesEffectNextTime(t *testing.T) {
	o := New(0)
	late := &recorder{}
	var sub *Subscription[int]
	sub = o.AttachFunc(func(v int) {
		if v == 1 {
			sub.Detach()
		}
	})
	o.Attach(late)

	o.Notify(1)
	o.Notify(2)

	assert.Equal(t, []int{0, 1, 2}, late.got)
	assert.Equal(t, 1, o.Len())
}
