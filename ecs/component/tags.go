package component

type VehicleTag struct{}

var VehicleTagComponent = NewComponent[VehicleTag]()

type BuildingTag struct{}

var BuildingTagComponent = NewComponent[BuildingTag]()
