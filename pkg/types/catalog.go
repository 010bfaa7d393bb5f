// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the radar-fetch pipeline:
// the scraped catalog, the filtered download plan, and the configuration
// passed explicitly into every stage.
package types

// AvailableSoon is the download value recorded for sensors whose archive
// has been announced but not published yet.
const AvailableSoon = "Available Soon"

// Property is a single "Key: Value" line from a sensor's table cell.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// SensorRecord holds the metadata scraped for one sensor of one dataset.
type SensorRecord struct {
	// Size is the human-readable archive size (e.g. "12.3 GB"). Empty when
	// the page does not list one.
	Size string `json:"size" yaml:"size"`

	// Download is the archive link, or AvailableSoon.
	Download string `json:"download" yaml:"download"`

	// Properties lists every key/value line of the cell in page order,
	// including "Size" and "Format".
	Properties []Property `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Available reports whether the record has a real download link.
func (r SensorRecord) Available() bool {
	return r.Download != AvailableSoon
}

// Property returns the value of the named property and whether it exists.
func (r SensorRecord) Property(key string) (string, bool) {
	for _, p := range r.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// DatasetEntry maps sensor names to their records, preserving the order in
// which sensors appear on the dataset page.
type DatasetEntry struct {
	sensors []string
	records map[string]SensorRecord
}

// Keys returns the sensor names in insertion order.
func (e DatasetEntry) Keys() []string {
	out := make([]string, len(e.sensors))
	copy(out, e.sensors)
	return out
}

// Len returns the number of sensors.
func (e DatasetEntry) Len() int { return len(e.sensors) }

// Get returns the record for sensor and whether it exists.
func (e DatasetEntry) Get(sensor string) (SensorRecord, bool) {
	rec, ok := e.records[sensor]
	return rec, ok
}

// Set inserts or replaces the record for sensor. A replaced sensor keeps its
// original position.
func (e *DatasetEntry) Set(sensor string, rec SensorRecord) {
	if e.records == nil {
		e.records = make(map[string]SensorRecord)
	}
	if _, exists := e.records[sensor]; !exists {
		e.sensors = append(e.sensors, sensor)
	}
	e.records[sensor] = rec
}

// Catalog is the full dataset -> sensor -> record mapping scraped from the
// dataset site. Datasets keeps the listing order.
type Catalog struct {
	Datasets []string
	Entries  map[string]DatasetEntry
}

// Add appends a dataset entry. Adding an existing dataset replaces its entry
// without changing its position.
func (c *Catalog) Add(name string, entry DatasetEntry) {
	if c.Entries == nil {
		c.Entries = make(map[string]DatasetEntry)
	}
	if _, exists := c.Entries[name]; !exists {
		c.Datasets = append(c.Datasets, name)
	}
	c.Entries[name] = entry
}

// Entry returns the entry for dataset and whether it exists.
func (c Catalog) Entry(name string) (DatasetEntry, bool) {
	e, ok := c.Entries[name]
	return e, ok
}

// Sensors returns the reference sensor list: the sensors of the first
// dataset. Filters are validated against this list only.
func (c Catalog) Sensors() []string {
	if len(c.Datasets) == 0 {
		return nil
	}
	return c.Entries[c.Datasets[0]].Keys()
}
