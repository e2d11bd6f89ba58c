// Package schema serves a local test bench for Keboola component
// configuration schemas.
//
// A component directory holds component_config/configSchema.json and
// component_config/configRowSchema.json. The server renders both schemas
// as forms in the browser, pre-fills them from data/config.json and runs
// the component's sync actions (src/component.py with KBC_DATADIR set) so
// dynamic selects can be exercised without deploying the component.
package schema
