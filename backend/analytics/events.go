package analytics

func EmitUserRegistered(client Client, userID string) {
	client.Enqueue(Event{
		DistinctId: userID,
		Event:      "user_registered",
	})
}

func EmitAgentCreated(client Client, userID, agentID, agentName, modelName string) {
	client.Enqueue(Event{
		DistinctId: userID,
		Event:      "agent_created",
		Properties: map[string]any{
			"agent_id":   agentID,
			"agent_name": agentName,
			"model_name": modelName,
		},
	})
}

func EmitDelegationAdded(client Client, userID, parentID, childID string, priority int) {
	client.Enqueue(Event{
		DistinctId: userID,
		Event:      "delegation_added",
		Properties: map[string]any{
			"agent_id":    parentID,
			"subagent_id": childID,
			"priority":    priority,
		},
	})
}

func EmitDelegationRemoved(client Client, userID, parentID, childID string) {
	client.Enqueue(Event{
		DistinctId: userID,
		Event:      "delegation_removed",
		Properties: map[string]any{
			"agent_id":    parentID,
			"subagent_id": childID,
		},
	})
}

func EmitExecutionCreated(client Client, userID, executionID, agentID string) {
	client.Enqueue(Event{
		DistinctId: userID,
		Event:      "execution_created",
		Properties: map[string]any{
			"execution_id": executionID,
			"agent_id":     agentID,
		},
	})
}
