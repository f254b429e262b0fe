package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Create flows table
			CREATE TABLE flows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'published')),
				variables JSONB,
				owner VARCHAR(255),
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX idx_flows_status ON flows(status);
			CREATE INDEX idx_flows_owner ON flows(owner);
			CREATE INDEX idx_flows_created_at ON flows(created_at);
			CREATE INDEX idx_flows_deleted_at ON flows(deleted_at);

			-- Create flow_nodes table
			CREATE TABLE flow_nodes (
				flow_id UUID NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				kind VARCHAR(50) NOT NULL,
				label VARCHAR(255) NOT NULL DEFAULT '',
				data JSONB DEFAULT '{}',
				position_x INT DEFAULT 0,
				position_y INT DEFAULT 0,
				minimized BOOLEAN NOT NULL DEFAULT false,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (flow_id, id)
			);

			CREATE INDEX idx_flow_nodes_flow_id ON flow_nodes(flow_id);
			CREATE INDEX idx_flow_nodes_kind ON flow_nodes(kind);

			-- Create flow_connections table
			CREATE TABLE flow_connections (
				flow_id UUID NOT NULL REFERENCES flows(id) ON DELETE CASCADE,
				id VARCHAR(255) NOT NULL,
				source_port VARCHAR(255) NOT NULL,
				target_port VARCHAR(255) NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (flow_id, id)
			);

			CREATE INDEX idx_flow_connections_flow_id ON flow_connections(flow_id);
			CREATE UNIQUE INDEX idx_flow_connections_unique ON flow_connections(flow_id, source_port, target_port);
		`,
	}
}
