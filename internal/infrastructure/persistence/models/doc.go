// Package models contains the GORM persistence models mirroring the domain
// entities. Models own all schema concerns (column types, indexes, nullable
// columns); domain entities never carry gorm tags.
package models
