package fixture

// Root is the only type of the module root package.
type Root struct{}

type Alias = Root
