package object

import (
	"fmt"

	"github.com/kristofer/loxvm/pkg/table"
	"github.com/kristofer/loxvm/pkg/value"
)

// ObjClass is a runtime class value: a name and a method table mapping
// method-name *ObjString keys to *ObjClosure values. OP_INHERIT populates a
// subclass's Methods by copying every entry out of its superclass's table
// (table.AddAll) at class-definition time, so overriding a superclass method
// later never disturbs already-created subclasses.
type ObjClass struct {
	Header
	Name    *ObjString
	Methods *table.Table
}

func NewClass(name *ObjString) *ObjClass {
	return &ObjClass{
		Header:  newHeader(value.ObjClass),
		Name:    name,
		Methods: table.NewTable(),
	}
}

func (c *ObjClass) String() string { return c.Name.Chars }

func (c *ObjClass) Blacken(mark func(value.Value)) {
	mark(c.Name)
	for _, k := range c.Methods.Keys() {
		if v, ok := c.Methods.Get(k); ok {
			if sk, ok := k.(value.Object); ok {
				mark(sk)
			}
			mark(v)
		}
	}
}

func (c *ObjClass) Size() uintptr { return 56 }

// ObjInstance is a runtime instance of some Class, holding its own field
// table. Unlike Methods, which is shared read-mostly state on the class,
// Fields is per-instance and starts empty — Lox instances declare fields
// simply by assigning them in a method, typically init.
type ObjInstance struct {
	Header
	Class  *ObjClass
	Fields *table.Table
}

func NewInstance(class *ObjClass) *ObjInstance {
	return &ObjInstance{
		Header: newHeader(value.ObjInstance),
		Class:  class,
		Fields: table.NewTable(),
	}
}

func (i *ObjInstance) String() string { return fmt.Sprintf("%s instance", i.Class.Name.Chars) }

func (i *ObjInstance) Blacken(mark func(value.Value)) {
	mark(i.Class)
	for _, k := range i.Fields.Keys() {
		if v, ok := i.Fields.Get(k); ok {
			if sk, ok := k.(value.Object); ok {
				mark(sk)
			}
			mark(v)
		}
	}
}

func (i *ObjInstance) Size() uintptr { return 48 }

// ObjBoundMethod pairs a receiver with the closure looked up off its class at
// the moment of `obj.method` access, before any call happens. Calling the
// bound method later pushes Receiver back into stack slot 0 in place of the
// method value itself, so `this` resolves correctly no matter how far the
// bound method travels from the instance it was taken off of.
type ObjBoundMethod struct {
	Header
	Receiver value.Value
	Method   *ObjClosure
}

func NewBoundMethod(receiver value.Value, method *ObjClosure) *ObjBoundMethod {
	return &ObjBoundMethod{
		Header:   newHeader(value.ObjBoundMethod),
		Receiver: receiver,
		Method:   method,
	}
}

func (b *ObjBoundMethod) String() string { return b.Method.String() }

func (b *ObjBoundMethod) Blacken(mark func(value.Value)) {
	mark(b.Receiver)
	mark(b.Method)
}

func (b *ObjBoundMethod) Size() uintptr { return 40 }
