package importer

import (
	"strings"
	"testing"
	"time"
)

const testNS = "http://tempuri.org/Database.xsd"

type testCustomer struct {
	ID        int64
	Firstname string
	Lastname  string
}

type testOrder struct {
	ID        int64
	Customer  int64
	OrderDate time.Time
}

type testProduct struct {
	ID   int64
	Cost float64
	Name string
}

func customerShape() *Schema[testCustomer] {
	return NewSchema[testCustomer]("Customer").
		Int("Id", func(c *testCustomer, v int64) { c.ID = v }).
		Text("Firstname", func(c *testCustomer, v string) { c.Firstname = v }).
		Text("Lastname", func(c *testCustomer, v string) { c.Lastname = v }).
		ID("Id").
		MustBuild()
}

func orderShape() *Schema[testOrder] {
	return NewSchema[testOrder]("Order").
		Int("Id", func(o *testOrder, v int64) { o.ID = v }).
		Int("Customer", func(o *testOrder, v int64) { o.Customer = v }).
		Time("OrderDate", func(o *testOrder, v time.Time) { o.OrderDate = v }).
		ID("Id").
		MustBuild()
}

func productShape() *Schema[testProduct] {
	return NewSchema[testProduct]("Product").
		Int("Id", func(p *testProduct, v int64) { p.ID = v }).
		Float("Cost", func(p *testProduct, v float64) { p.Cost = v }).
		Text("Name", func(p *testProduct, v string) { p.Name = v }).
		ID("Id").
		MustBuild()
}

// testDataset mirrors the layout of the bundled dataset: flat entity elements under a
// namespaced root, with link rows and order->customer references.
const testDataset = `<?xml version="1.0" standalone="yes"?>
<Database xmlns="http://tempuri.org/Database.xsd">
  <Customer><Id>1</Id><Firstname>Steve</Firstname><Lastname>Smith</Lastname></Customer>
  <Customer><Id>2</Id><Firstname>Joe</Firstname><Lastname>X</Lastname></Customer>
  <Order><Id>1</Id><OrderDate>2009-01-01T00:00:00</OrderDate><Customer>1</Customer></Order>
  <Order><Id>2</Id><OrderDate>2009-02-01T00:00:00</OrderDate><Customer>2</Customer></Order>
  <Product><Id>1</Id><Cost>9.5</Cost><Name>Shoe</Name></Product>
  <Product><Id>2</Id><Cost>12</Cost><Name>Hat</Name></Product>
  <OrderProduct><OrderId>2</OrderId><ProductId>1</ProductId></OrderProduct>
  <OrderProduct><OrderId>1</OrderId><ProductId>2</ProductId></OrderProduct>
  <OrderProduct><OrderId>1</OrderId><ProductId>1</ProductId></OrderProduct>
</Database>`

func mustParse(t *testing.T, doc string) *Node {
	t.Helper()
	root, err := ParseXML(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

// collect runs ImportEntities and records every callback.
type collected struct {
	entities []Entity
	unmapped [][2]string
}

func collect(t *testing.T, im *Importer, shapes ...Shape) (collected, error) {
	t.Helper()
	var c collected
	err := im.ImportEntities(shapes,
		func(e Entity) error {
			c.entities = append(c.entities, e)
			return nil
		},
		func(shape, field string) {
			c.unmapped = append(c.unmapped, [2]string{shape, field})
		},
	)
	return c, err
}
