package registry

// BaseNodes returns the node types packaged with the runtime.
func BaseNodes() Loader {
	return Static(Types{
		Nodes: []NodeType{
			{
				Name:        "n8n-nodes-base.start",
				DisplayName: "Start",
				Group:       []string{"input"},
				Description: "Entry point for headless and manual executions",
			},
			{
				Name:        "n8n-nodes-base.noOp",
				DisplayName: "No Operation",
				Group:       []string{"organization"},
				Description: "Passes items through unchanged",
			},
			{
				Name:        "n8n-nodes-base.set",
				DisplayName: "Set",
				Group:       []string{"input"},
				Description: "Sets values on items",
			},
			{
				Name:        "n8n-nodes-base.httpRequest",
				DisplayName: "HTTP Request",
				Group:       []string{"output"},
				Description: "Makes an HTTP request and returns the response",
			},
		},
	})
}

// BaseCredentials returns the credential types packaged with the runtime.
func BaseCredentials() Loader {
	return Static(Types{
		Credentials: []CredentialType{
			{
				Name:        "httpBasicAuth",
				DisplayName: "Basic Auth",
				Properties:  []string{"user", "password"},
			},
			{
				Name:        "httpHeaderAuth",
				DisplayName: "Header Auth",
				Properties:  []string{"name", "value"},
			},
		},
	})
}
