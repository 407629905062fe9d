package models

// WorkerForm is the insurance registration assistance form.
type WorkerForm struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Village string `json:"village"`
	Aadhaar string `json:"aadhaar"`
	Agree   bool   `json:"agree"`
}

// FarmerForm is the free labour request form. Date is the preferred work date
// and is not carried onto the receipt.
type FarmerForm struct {
	Name    string `json:"name"`
	Mobile  string `json:"mobile"`
	Village string `json:"village"`
	Need    string `json:"need"`
	Date    string `json:"date"`
}

// BlankWorkerForm is the value a worker form resets to. The agreement box
// starts ticked.
func BlankWorkerForm() WorkerForm {
	return WorkerForm{Agree: true}
}

// BlankFarmerForm is the value a farmer form resets to.
func BlankFarmerForm() FarmerForm {
	return FarmerForm{}
}
