// Package customerdata is an in-process Go client for the customer dataset
// stored in Redis with the query engine.
//
// # Import and query
//
//	client, _ := customerdata.New(ctx,
//	    customerdata.WithRedis("localhost:6379", ""),
//	    customerdata.WithNamespace("http://tempuri.org/Database.xsd"),
//	    customerdata.WithReset(),
//	)
//	defer client.Close()
//
//	f, _ := os.Open("TestData.xml")
//	report, _ := client.Import(ctx, f, "TestData.xml")
//
//	steves, _ := client.Customers().ByFirstname(ctx, "steve", 10)
//	orders, _ := client.Customers().Orders(ctx, steves.Items[0].ID, 0)
//	top, _ := client.Customers().FirstnameCounts(ctx, 5)
package customerdata
