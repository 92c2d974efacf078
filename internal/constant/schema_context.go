package constant

// SchemaContext is the consolidated default schema/business context
// seeded into every question's pipeline state. Additional table schemas
// and business notes can be appended here as they become available.
const SchemaContext = `
-- amzn_ads_sb_campaigns

-- amzn_fba_fulfillment_customer_returns_data

-- amzn_fba_fulfillment_customer_shipment_replacement_data

-- amzn_fba_fulfillment_removal_order_detail_data

-- amzn_fba_inbound_shipment_items

-- amzn_fba_inbound_shipment_transport_details

-- amzn_fba_inventory_planning_data
`
