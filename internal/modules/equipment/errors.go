package equipment

const msgSerialNumberTaken = "equipment with this serial number already exists."
