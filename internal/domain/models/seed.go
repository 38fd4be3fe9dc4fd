package models

// SeedProducts returns the catalog used when no persisted catalog exists.
func SeedProducts() []Product {
	return []Product{
		{ID: "p1", Code: "PROD-001", Name: "고성능 서버 모듈 A", Category: "서버"},
		{ID: "p2", Code: "PROD-002", Name: "산업용 IoT 센서 B", Category: "센서"},
		{ID: "p3", Code: "PROD-003", Name: "네트워크 스위치 허브 C", Category: "네트워크"},
		{ID: "p4", Code: "PROD-004", Name: "무선 컨트롤러 D", Category: "컨트롤러"},
		{ID: "p5", Code: "PROD-005", Name: "전력 관리 유닛 E", Category: "전원"},
	}
}

// SeedRecords returns the shipment list used when no persisted list exists.
func SeedRecords() []ShipmentRecord {
	return []ShipmentRecord{
		{ID: 1, Serial: "SN-20231025-001", ProductID: "p1", Customer: "(주)한국전자", ShipDate: "2023-10-25", Memo: "1차 납품분", Status: DefaultStatus},
		{ID: 2, Serial: "SN-20231102-045", ProductID: "p2", Customer: "미래테크", ShipDate: "2023-11-02", Memo: "테스트용 샘플", Status: DefaultStatus},
		{ID: 3, Serial: "SN-20231205-012", ProductID: "p3", Customer: "넥스트넷", ShipDate: "2023-12-05", Memo: "긴급 발주", Status: DefaultStatus},
		{ID: 4, Serial: "SN-20240110-008", ProductID: "p1", Customer: "글로벌시스템", ShipDate: "2024-01-10", Memo: "해외 수출용", Status: "선적대기"},
	}
}
