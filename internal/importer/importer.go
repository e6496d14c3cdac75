// Package importer maps a parsed hierarchical document onto caller-declared record shapes.
//
// The importer is call-scoped: it owns no store and no process-wide state. Every
// constructed entity, relation pair and back-reference is handed to a callback, in
// document order, and persistence is entirely the caller's concern.
package importer

import (
	"strings"
)

// DefaultIDField is the identifier field assumed when a declaration does not name one.
const DefaultIDField = "Id"

// Entity is one constructed record tagged with the name of the shape that built it.
type Entity struct {
	Shape  string
	ID     Key
	Record any
}

// Relation declares a link collection joining two other collections. Each link node
// carries the foreign keys <Left>Id and <Right>Id.
type Relation struct {
	Link  string
	Left  string
	Right string
	Key   KeyType
}

// BackReference declares a field of Collection whose value is a foreign key to another
// entity. IDField names the owner's identifier (DefaultIDField when empty); Key applies
// to both the owner and the referenced identifier.
type BackReference struct {
	Collection string
	Field      string
	IDField    string
	Key        KeyType
}

// Option configures an Importer.
type Option func(*Importer)

// WithNamespace restricts matching to elements in the given XML namespace.
func WithNamespace(ns string) Option {
	return func(im *Importer) { im.namespace = ns }
}

// Importer walks one document. It is safe for concurrent use because every pass keeps
// its traversal state on the stack.
type Importer struct {
	root      *Node
	namespace string
}

// New creates an importer over root.
func New(root *Node, opts ...Option) *Importer {
	im := &Importer{root: root}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportEntities constructs one record per node of every shape's collection and passes
// it to onEntity. Shapes are processed in the given order, nodes in document order.
//
// A field with no source value is reported through onUnmapped once per (shape, field)
// and left at its zero value. A missing identifier or a value that cannot be coerced
// aborts the import before the node's entity is emitted. Errors from onEntity are
// returned unchanged. A nil onEntity validates the document without emitting anything.
func (im *Importer) ImportEntities(
	shapes []Shape, onEntity func(Entity) error, onUnmapped func(shape, field string),
) error {
	if onEntity == nil {
		onEntity = func(Entity) error { return nil }
	}
	reported := make(map[[2]string]struct{})
	missing := func(shape, field string) {
		k := [2]string{shape, strings.ToLower(field)}
		if _, ok := reported[k]; ok {
			return
		}
		reported[k] = struct{}{}
		if onUnmapped != nil {
			onUnmapped(shape, field)
		}
	}

	for _, sh := range shapes {
		for pos, n := range im.collection(sh.Name()) {
			e, err := im.build(sh, pos, n, missing)
			if err != nil {
				return err
			}
			if err := onEntity(e); err != nil {
				return err
			}
		}
	}
	return nil
}

func (im *Importer) build(sh Shape, pos int, n *Node, missing func(shape, field string)) (Entity, error) {
	rec := sh.NewRecord()
	idField := sh.IDField()
	var id Key

	for _, f := range sh.Fields() {
		isID := strings.EqualFold(f.Name, idField)

		raw, ok := im.value(n, f.Name)
		if !ok {
			if isID {
				return Entity{}, &MissingIdentifierError{Shape: sh.Name(), Field: f.Name, Position: pos}
			}
			missing(sh.Name(), f.Name)
			continue
		}

		v, err := Coerce(raw, f.Type)
		if err != nil {
			return Entity{}, &CoercionError{Shape: sh.Name(), Field: f.Name, Raw: raw, Type: f.Type.String(), Err: err}
		}
		if err := rec.Set(f.Name, v); err != nil {
			return Entity{}, err
		}

		if isID {
			if f.Type == TypeString {
				id = StringKey(raw)
			} else {
				id = IntKey(v.Int())
			}
		}
	}

	return Entity{Shape: sh.Name(), ID: id, Record: rec.Value()}, nil
}

// ImportRelations emits one (left, right) pair per node of the link collection, in
// document order. A pair whose endpoints are missing or do not parse as rel.Key aborts
// the pass with a *CoercionError. Errors from onPair are returned unchanged.
func (im *Importer) ImportRelations(rel Relation, onPair func(left, right Key) error) error {
	leftField := rel.Left + DefaultIDField
	rightField := rel.Right + DefaultIDField

	for _, n := range im.collection(rel.Link) {
		left, err := im.key(n, rel.Link, leftField, rel.Key)
		if err != nil {
			return err
		}
		right, err := im.key(n, rel.Link, rightField, rel.Key)
		if err != nil {
			return err
		}
		if err := onPair(left, right); err != nil {
			return err
		}
	}
	return nil
}

// ImportScalarForeignKey emits (owner, referenced) for every node of ref.Collection that
// carries a non-empty ref.Field, in document order.
//
// The callback typically performs a read-modify-write on an already persisted record, so
// the caller must run this pass after all primary entities are stored and must not write
// the same records concurrently. Errors from onValue are returned unchanged.
func (im *Importer) ImportScalarForeignKey(ref BackReference, onValue func(owner, referenced Key) error) error {
	idField := ref.IDField
	if idField == "" {
		idField = DefaultIDField
	}

	for pos, n := range im.collection(ref.Collection) {
		raw, ok := im.value(n, ref.Field)
		if !ok {
			continue
		}
		referenced, err := ParseKey(raw, ref.Key)
		if err != nil {
			return &CoercionError{Shape: ref.Collection, Field: ref.Field, Raw: raw, Type: ref.Key.String(), Err: err}
		}

		ownerRaw, ok := im.value(n, idField)
		if !ok {
			return &MissingIdentifierError{Shape: ref.Collection, Field: idField, Position: pos}
		}
		owner, err := ParseKey(ownerRaw, ref.Key)
		if err != nil {
			return &CoercionError{Shape: ref.Collection, Field: idField, Raw: ownerRaw, Type: ref.Key.String(), Err: err}
		}

		if err := onValue(owner, referenced); err != nil {
			return err
		}
	}
	return nil
}

func (im *Importer) key(n *Node, collection, field string, typ KeyType) (Key, error) {
	raw, ok := im.value(n, field)
	if !ok {
		return Key{}, &CoercionError{Shape: collection, Field: field, Type: typ.String(), Err: ErrMissingValue}
	}
	k, err := ParseKey(raw, typ)
	if err != nil {
		return Key{}, &CoercionError{Shape: collection, Field: field, Raw: raw, Type: typ.String(), Err: err}
	}
	return k, nil
}

// collection returns the entity nodes of the named collection in document order.
// Both layouts are accepted: entity elements directly under the root, and a wrapper
// element (usually the plural name) whose children are the entities. An empty wrapper
// such as <Customers/> contributes no nodes.
func (im *Importer) collection(name string) []*Node {
	if im.root == nil {
		return nil
	}
	if im.inScope(im.root) && sameCollection(im.root.Name, name) {
		return im.members(im.root, name)
	}

	var out []*Node
	for _, c := range im.root.Children {
		if !im.inScope(c) || !sameCollection(c.Name, name) {
			continue
		}
		if members := im.members(c, name); len(members) > 0 {
			out = append(out, members...)
			continue
		}
		if isEmptyGroup(c, name) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// isEmptyGroup reports whether n is a wrapper named differently from the shape that
// carries neither children nor attributes.
func isEmptyGroup(n *Node, name string) bool {
	return !strings.EqualFold(n.Name, name) && len(n.Children) == 0 && len(n.Attrs) == 0
}

func (im *Importer) members(wrapper *Node, name string) []*Node {
	var out []*Node
	for _, m := range wrapper.Children {
		if im.inScope(m) && sameCollection(m.Name, name) {
			out = append(out, m)
		}
	}
	return out
}

// value looks up a field as a child element, then as an attribute. Empty text counts
// as absent, so an empty element falls through to a same-named attribute.
func (im *Importer) value(n *Node, field string) (string, bool) {
	for _, c := range n.Children {
		if im.inScope(c) && strings.EqualFold(c.Name, field) && c.Text != "" {
			return c.Text, true
		}
	}
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name, field) && a.Value != "" {
			return a.Value, true
		}
	}
	return "", false
}

func (im *Importer) inScope(n *Node) bool {
	return im.namespace == "" || n.Space == im.namespace
}
