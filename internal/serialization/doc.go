// Package serialization saves and loads networks as JSON model files.
//
// A model file is a single JSON document:
//
//	{
//	  "format_version": 1,
//	  "created_at": "2025-01-01T00:00:00Z",
//	  "inputs": 4,
//	  "layers": [
//	    {"neurons": [{"weights": [0.1, -0.4, 0.9, 0.2], "bias": 0.05}, ...]},
//	    ...
//	  ],
//	  "metadata": {"dataset": "iris"},
//	  "checksum": "<hex SHA-256 of the compact layers encoding>"
//	}
//
// Only topology and parameters are stored. Training state is never written;
// create a fresh optim.State after loading.
//
// Example usage:
//
//	// Save a model
//	if err := serialization.Save("nn.json", net); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Load a model
//	net, err := serialization.Load("nn.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	state := optim.NewState(net)
package serialization
